// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/miyata-dev/github-dormant/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
// Every method pages through the full result set before returning.
type Fetcher interface {
	ListRepositories(ctx context.Context, org string) ([]string, error)
	ListBranches(ctx context.Context, org, repo string) ([]string, error)
	FetchCommitActivity(ctx context.Context, org, repo, branch string, since time.Time) ([]domain.Event, error)
	FetchIssueActivity(ctx context.Context, org, repo string, since time.Time) ([]domain.Event, error)
	FetchPullRequestActivity(ctx context.Context, org, repo string, since time.Time) ([]domain.Event, error)
	ListMembers(ctx context.Context, org string) ([]string, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *logrus.Logger
	retry         retryConfig
}

// pageInfo is the shared cursor fragment of every paginated connection.
type pageInfo struct {
	HasNextPage bool
	EndCursor   githubv4.String
}

type repositoriesQuery struct {
	Organization struct {
		Repositories struct {
			Nodes []struct {
				Name string
			}
			PageInfo pageInfo
		} `graphql:"repositories(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

type branchesQuery struct {
	Repository struct {
		Refs struct {
			Nodes []struct {
				Name string
			}
			PageInfo pageInfo
		} `graphql:"refs(refPrefix: \"refs/heads/\", first: 100, after: $cursor)"`
	} `graphql:"repository(owner: $org, name: $repo)"`
}

// commitHistoryQuery walks a branch's commit history since the cutoff. Ref and
// Target are pointers because both come back null for protected or empty branches.
type commitHistoryQuery struct {
	Repository struct {
		Ref *struct {
			Target *struct {
				Commit struct {
					History struct {
						Nodes []struct {
							Author struct {
								User *struct {
									Login string
								}
								Date githubv4.GitTimestamp
							}
						}
						PageInfo pageInfo
					} `graphql:"history(first: 100, after: $cursor, since: $since)"`
				} `graphql:"... on Commit"`
			}
		} `graphql:"ref(qualifiedName: $branch)"`
	} `graphql:"repository(owner: $org, name: $repo)"`
}

type issuesQuery struct {
	Repository struct {
		Issues struct {
			Nodes []struct {
				Author *struct {
					Login string
				}
				UpdatedAt githubv4.DateTime
			}
			PageInfo pageInfo
		} `graphql:"issues(first: 100, after: $cursor, orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $org, name: $repo)"`
}

type pullRequestsQuery struct {
	Repository struct {
		PullRequests struct {
			Nodes []struct {
				Author *struct {
					Login string
				}
				UpdatedAt githubv4.DateTime
			}
			PageInfo pageInfo
		} `graphql:"pullRequests(states: [OPEN, CLOSED, MERGED], orderBy: {field: UPDATED_AT, direction: DESC}, first: 100, after: $cursor)"`
	} `graphql:"repository(owner: $org, name: $repo)"`
}

type membersQuery struct {
	Organization struct {
		MembersWithRole struct {
			Nodes []struct {
				Login string
			}
			PageInfo pageInfo
		} `graphql:"membersWithRole(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The HTTP transport handles GitHub's secondary rate limits transparently.
func NewGitHubGateway(token string, logger *logrus.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
		retry:         defaultRetryConfig(),
	}, nil
}

// ListRepositories returns the names of every repository in the organization.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string) ([]string, error) {
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	var repos []string
	for {
		var q repositoriesQuery
		if err := g.withRetry(ctx, "list repositories", func() error {
			return g.graphqlClient.Query(ctx, &q, variables)
		}); err != nil {
			return nil, &APIError{Op: "list repositories", Org: org, Err: err}
		}
		for _, node := range q.Organization.Repositories.Nodes {
			repos = append(repos, node.Name)
		}
		page := q.Organization.Repositories.PageInfo
		if !page.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(page.EndCursor)
		g.logger.Debug("fetching next page of repositories")
	}
	return repos, nil
}

// ListBranches returns the branch names of one repository.
func (g *GitHubGateway) ListBranches(ctx context.Context, org, repo string) ([]string, error) {
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"repo":   githubv4.String(repo),
		"cursor": (*githubv4.String)(nil),
	}
	var branches []string
	for {
		var q branchesQuery
		if err := g.withRetry(ctx, "list branches", func() error {
			return g.graphqlClient.Query(ctx, &q, variables)
		}); err != nil {
			return nil, &APIError{Op: "list branches", Org: org, Repo: repo, Err: err}
		}
		for _, node := range q.Repository.Refs.Nodes {
			branches = append(branches, node.Name)
		}
		page := q.Repository.Refs.PageInfo
		if !page.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(page.EndCursor)
		g.logger.Debug("fetching next page of branches")
	}
	return branches, nil
}

// FetchCommitActivity returns one event per commit authored on the branch
// since the cutoff. Commits without a resolvable GitHub user are dropped.
// A missing ref, or a ref whose target is not a commit, yields no events.
func (g *GitHubGateway) FetchCommitActivity(ctx context.Context, org, repo, branch string, since time.Time) ([]domain.Event, error) {
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"repo":   githubv4.String(repo),
		"branch": githubv4.String(branch),
		"since":  githubv4.GitTimestamp{Time: since},
		"cursor": (*githubv4.String)(nil),
	}
	var events []domain.Event
	for {
		var q commitHistoryQuery
		if err := g.withRetry(ctx, "commit history", func() error {
			return g.graphqlClient.Query(ctx, &q, variables)
		}); err != nil {
			return nil, &APIError{Op: "commit history", Org: org, Repo: repo, Branch: branch, Err: err}
		}
		if q.Repository.Ref == nil || q.Repository.Ref.Target == nil {
			break
		}
		history := q.Repository.Ref.Target.Commit.History
		for _, node := range history.Nodes {
			if node.Author.User == nil {
				continue
			}
			events = append(events, domain.Event{
				Login:     node.Author.User.Login,
				Timestamp: node.Author.Date.Time,
				Kind:      domain.KindCommit,
			})
		}
		if !history.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(history.PageInfo.EndCursor)
	}
	return events, nil
}

// FetchIssueActivity returns one event per issue updated since the cutoff.
// Issues come back newest-first, so pagination stops at the first stale one.
func (g *GitHubGateway) FetchIssueActivity(ctx context.Context, org, repo string, since time.Time) ([]domain.Event, error) {
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"repo":   githubv4.String(repo),
		"cursor": (*githubv4.String)(nil),
	}
	var events []domain.Event
	for {
		var q issuesQuery
		if err := g.withRetry(ctx, "issue activity", func() error {
			return g.graphqlClient.Query(ctx, &q, variables)
		}); err != nil {
			return nil, &APIError{Op: "issue activity", Org: org, Repo: repo, Err: err}
		}
		for _, node := range q.Repository.Issues.Nodes {
			if node.UpdatedAt.Time.Before(since) {
				return events, nil
			}
			if node.Author == nil {
				continue
			}
			events = append(events, domain.Event{
				Login:     node.Author.Login,
				Timestamp: node.UpdatedAt.Time,
				Kind:      domain.KindIssue,
			})
		}
		page := q.Repository.Issues.PageInfo
		if !page.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(page.EndCursor)
	}
	return events, nil
}

// FetchPullRequestActivity returns one event per pull request updated since
// the cutoff, across open, closed and merged states.
func (g *GitHubGateway) FetchPullRequestActivity(ctx context.Context, org, repo string, since time.Time) ([]domain.Event, error) {
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"repo":   githubv4.String(repo),
		"cursor": (*githubv4.String)(nil),
	}
	var events []domain.Event
	for {
		var q pullRequestsQuery
		if err := g.withRetry(ctx, "pull request activity", func() error {
			return g.graphqlClient.Query(ctx, &q, variables)
		}); err != nil {
			return nil, &APIError{Op: "pull request activity", Org: org, Repo: repo, Err: err}
		}
		for _, node := range q.Repository.PullRequests.Nodes {
			if node.UpdatedAt.Time.Before(since) {
				return events, nil
			}
			if node.Author == nil {
				continue
			}
			events = append(events, domain.Event{
				Login:     node.Author.Login,
				Timestamp: node.UpdatedAt.Time,
				Kind:      domain.KindPullRequest,
			})
		}
		page := q.Repository.PullRequests.PageInfo
		if !page.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(page.EndCursor)
	}
	return events, nil
}

// ListMembers returns the login of every member of the organization.
func (g *GitHubGateway) ListMembers(ctx context.Context, org string) ([]string, error) {
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	var members []string
	for {
		var q membersQuery
		if err := g.withRetry(ctx, "list members", func() error {
			return g.graphqlClient.Query(ctx, &q, variables)
		}); err != nil {
			return nil, &APIError{Op: "list members", Org: org, Err: err}
		}
		for _, node := range q.Organization.MembersWithRole.Nodes {
			members = append(members, node.Login)
		}
		page := q.Organization.MembersWithRole.PageInfo
		if !page.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(page.EndCursor)
		g.logger.Debug("fetching next page of members")
	}
	return members, nil
}

// RateLimits returns the current REST/GraphQL quota via the REST API.
func (g *GitHubGateway) RateLimits(ctx context.Context) (*github.RateLimits, error) {
	limits, _, err := g.restClient.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// RemainingGraphQLQuota reports how many GraphQL points are left in the
// current window. The pacer uses it to stretch pauses when quota runs low.
func (g *GitHubGateway) RemainingGraphQLQuota(ctx context.Context) (int, error) {
	limits, err := g.RateLimits(ctx)
	if err != nil {
		return 0, err
	}
	if limits.GraphQL == nil {
		return 0, fmt.Errorf("no graphql rate limit in response")
	}
	return limits.GraphQL.Remaining, nil
}
