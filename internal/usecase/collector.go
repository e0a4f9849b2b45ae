// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/miyata-dev/github-dormant/internal/domain"
	"github.com/miyata-dev/github-dormant/internal/gateway"
)

// SkippedUnit records one branch or repository that was skipped during a run.
type SkippedUnit struct {
	Repo   string
	Branch string // empty when the whole repository was skipped
	Reason string
}

// RunSummary aggregates what happened while walking one organization.
type RunSummary struct {
	Org                  string
	ReposTotal           int
	ReposWithoutBranches int
	BranchesProcessed    int
	EventsRecorded       int
	Skipped              []SkippedUnit
}

// Collector walks an organization's repositories and branches and folds every
// activity observation into a fresh ledger. It orchestrates the fetching and
// combining of data.
type Collector struct {
	fetcher gateway.Fetcher
	pacer   *Pacer
	logger  *logrus.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, pacer *Pacer, logger *logrus.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		pacer:   pacer,
		logger:  logger,
	}
}

// Collect produces the ledger of per-user latest activity for one
// organization, considering only activity since the cutoff. Branch and
// repository failures are skipped and recorded in the summary; only a failed
// repository enumeration aborts the organization.
func (c *Collector) Collect(ctx context.Context, org string, since time.Time) (*domain.Ledger, *RunSummary, error) {
	repos, err := c.fetcher.ListRepositories(ctx, org)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}

	ledger := domain.NewLedger()
	summary := &RunSummary{Org: org, ReposTotal: len(repos)}

	for i, repo := range repos {
		c.logger.WithFields(logrus.Fields{
			"org":   org,
			"repo":  repo,
			"index": i + 1,
			"total": len(repos),
		}).Info("processing repository")

		c.collectRepository(ctx, org, repo, since, ledger, summary)
		c.pacer.Tick(ctx, i+1)
	}

	c.logger.WithFields(logrus.Fields{
		"org":      org,
		"repos":    summary.ReposTotal,
		"branches": summary.BranchesProcessed,
		"events":   summary.EventsRecorded,
		"skipped":  len(summary.Skipped),
	}).Info("organization walk complete")
	return ledger, summary, nil
}

func (c *Collector) collectRepository(ctx context.Context, org, repo string, since time.Time, ledger *domain.Ledger, summary *RunSummary) {
	branches, err := c.fetcher.ListBranches(ctx, org, repo)
	if err != nil {
		c.logger.WithError(err).WithField("repo", repo).Warn("skipping repository")
		summary.Skipped = append(summary.Skipped, SkippedUnit{Repo: repo, Reason: err.Error()})
		return
	}
	if len(branches) == 0 {
		c.logger.WithField("repo", repo).Info("no branches, skipping")
		summary.ReposWithoutBranches++
		return
	}

	for _, branch := range branches {
		c.logger.WithFields(logrus.Fields{"repo": repo, "branch": branch}).Debug("collecting branch activity")

		recorded, err := c.collectBranch(ctx, org, repo, branch, since, ledger)
		summary.EventsRecorded += recorded
		if err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"repo":   repo,
				"branch": branch,
			}).Warn("skipping branch")
			summary.Skipped = append(summary.Skipped, SkippedUnit{Repo: repo, Branch: branch, Reason: err.Error()})
			continue
		}
		summary.BranchesProcessed++
	}
}

// collectBranch runs the three source queries concurrently and feeds the
// ledger. An error from any source skips the branch as a whole; events the
// other sources already recorded stay, since they are valid observations.
func (c *Collector) collectBranch(ctx context.Context, org, repo, branch string, since time.Time, ledger *domain.Ledger) (int, error) {
	var recorded atomic.Int64
	record := func(events []domain.Event) {
		for _, ev := range events {
			ledger.Record(ev.Login, ev.Timestamp)
		}
		recorded.Add(int64(len(events)))
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		events, err := c.fetcher.FetchCommitActivity(egCtx, org, repo, branch, since)
		if err != nil {
			return err
		}
		record(events)
		return nil
	})
	eg.Go(func() error {
		events, err := c.fetcher.FetchIssueActivity(egCtx, org, repo, since)
		if err != nil {
			return err
		}
		record(events)
		return nil
	})
	eg.Go(func() error {
		events, err := c.fetcher.FetchPullRequestActivity(egCtx, org, repo, since)
		if err != nil {
			return err
		}
		record(events)
		return nil
	})

	err := eg.Wait()
	return int(recorded.Load()), err
}
