package gateway

import "fmt"

// APIError reports a paginated query that exhausted its retries. It carries
// the query context so callers can decide to skip the failing unit of work
// (a branch or repository) rather than abort the whole run.
type APIError struct {
	Op     string // which query failed, e.g. "commit history"
	Org    string
	Repo   string
	Branch string
	Err    error
}

func (e *APIError) Error() string {
	scope := e.Org
	if e.Repo != "" {
		scope += "/" + e.Repo
	}
	if e.Branch != "" {
		scope += "@" + e.Branch
	}
	return fmt.Sprintf("github api error: %s for %s: %v", e.Op, scope, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
