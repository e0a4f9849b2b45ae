package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/miyata-dev/github-dormant/internal/domain"
	"github.com/miyata-dev/github-dormant/internal/gateway"
)

// Report is the outcome of one organization's run: the classified rows plus
// the walk summary. It is assembled once, written out, and discarded; no
// state survives across runs.
type Report struct {
	Org         string
	GeneratedAt time.Time
	Rows        []domain.Row
	Summary     *RunSummary
}

// RunOrganization executes the full pipeline for one organization: collect
// activity since now−thresholdDays, reconcile against the roster, classify.
func RunOrganization(ctx context.Context, fetcher gateway.Fetcher, pacer *Pacer, logger *logrus.Logger, org string, thresholdDays int, now time.Time) (*Report, error) {
	since := now.AddDate(0, 0, -thresholdDays)

	ledger, summary, err := NewCollector(fetcher, pacer, logger).Collect(ctx, org, since)
	if err != nil {
		return nil, err
	}

	rows, err := NewReconciler(fetcher, logger).Reconcile(ctx, org, ledger, thresholdDays, now)
	if err != nil {
		return nil, err
	}

	return &Report{
		Org:         org,
		GeneratedAt: now,
		Rows:        rows,
		Summary:     summary,
	}, nil
}
