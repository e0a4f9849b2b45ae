package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/miyata-dev/github-dormant/internal/domain"
	"github.com/miyata-dev/github-dormant/internal/gateway"
)

// RosterError reports a failed member roster fetch. It aborts the current
// organization only; later organizations in a multi-org run still proceed.
type RosterError struct {
	Org string
	Err error
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("failed to fetch member roster for %s: %v", e.Org, e.Err)
}

func (e *RosterError) Unwrap() error {
	return e.Err
}

// Reconciler merges the organization's member roster with the ledger and
// classifies every user.
type Reconciler struct {
	fetcher gateway.Fetcher
	logger  *logrus.Logger
}

// NewReconciler creates a new Reconciler instance.
func NewReconciler(fetcher gateway.Fetcher, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Reconcile returns one row per user in the union of ledger and roster.
// Ledger users come first in observation order; roster members with no
// recorded activity follow, sorted by login, as never-active. Non-member
// contributors present in the ledger are reported too: membership only
// drives never-active detection, it is not an inclusion filter.
func (r *Reconciler) Reconcile(ctx context.Context, org string, ledger *domain.Ledger, thresholdDays int, now time.Time) ([]domain.Row, error) {
	r.logger.WithField("org", org).Info("fetching org members for never-active detection")
	members, err := r.fetcher.ListMembers(ctx, org)
	if err != nil {
		return nil, &RosterError{Org: org, Err: err}
	}

	rows := make([]domain.Row, 0, ledger.Len()+len(members))
	for _, login := range ledger.Users() {
		last, _ := ledger.Last(login)
		rows = append(rows, domain.Row{
			Login:        login,
			LastActivity: last,
			Status:       domain.Classify(last, true, thresholdDays, now),
		})
	}

	observed := ledger.Snapshot()
	var neverActive []string
	for _, login := range members {
		if _, ok := observed[login]; !ok {
			neverActive = append(neverActive, login)
		}
	}
	sort.Strings(neverActive)
	for _, login := range neverActive {
		rows = append(rows, domain.Row{Login: login, Status: domain.StatusNeverActive})
	}

	r.logger.WithFields(logrus.Fields{
		"org":          org,
		"members":      len(members),
		"observed":     len(observed),
		"never_active": len(neverActive),
	}).Info("roster reconciled")
	return rows, nil
}
