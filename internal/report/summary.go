package report

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/miyata-dev/github-dormant/internal/domain"
)

// Summary holds aggregate statistics over one organization's report.
type Summary struct {
	Active      int
	Inactive    int
	NeverActive int

	// Mean/median days since last activity, across users with any observed
	// activity. Zero when nobody was observed.
	MeanDaysSinceActivity   float64
	MedianDaysSinceActivity float64
}

// Summarize computes status counts and recency statistics for the rows.
func Summarize(rows []domain.Row, now time.Time) Summary {
	var s Summary
	var days []float64

	for _, row := range rows {
		switch row.Status {
		case domain.StatusActive:
			s.Active++
		case domain.StatusInactive:
			s.Inactive++
		case domain.StatusNeverActive:
			s.NeverActive++
		}
		if row.Status != domain.StatusNeverActive {
			days = append(days, now.Sub(row.LastActivity).Hours()/24)
		}
	}

	if len(days) > 0 {
		// stats only errors on empty input, which is guarded above.
		s.MeanDaysSinceActivity, _ = stats.Mean(days)
		s.MedianDaysSinceActivity, _ = stats.Median(days)
	}
	return s
}
