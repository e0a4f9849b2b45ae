// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Kind identifies which source an activity observation came from.
type Kind string

const (
	KindCommit      Kind = "commit"
	KindIssue       Kind = "issue"
	KindPullRequest Kind = "pull-request"
)

// Event is a single observed action attributable to a user at a point in time.
// Events are transient: they are folded into a Ledger as they arrive and are
// never retained individually.
type Event struct {
	Login     string
	Timestamp time.Time
	Kind      Kind
}

// Status classifies a user's recency of activity.
type Status string

// The wire values mirror the report format consumed downstream: "true" and
// "false" for the active column, "never-active" for roster members with no
// observed activity.
const (
	StatusActive      Status = "true"
	StatusInactive    Status = "false"
	StatusNeverActive Status = "never-active"
)

// Classify maps a user's last observed activity to a Status. seen reports
// whether any activity was observed at all. The threshold boundary is
// inclusive: a timestamp exactly thresholdDays old counts as active, and a
// timestamp in the future (clock skew) is active without special-casing.
func Classify(last time.Time, seen bool, thresholdDays int, now time.Time) Status {
	if !seen {
		return StatusNeverActive
	}
	cutoff := now.AddDate(0, 0, -thresholdDays)
	if last.Before(cutoff) {
		return StatusInactive
	}
	return StatusActive
}

// Row is a single line of the final per-organization report.
type Row struct {
	Login        string
	LastActivity time.Time // zero when Status is StatusNeverActive
	Status       Status
}
