package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/miyata-dev/github-dormant/internal/domain"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.Row{
		{Login: "alice", LastActivity: now.AddDate(0, 0, -10), Status: domain.StatusActive},
		{Login: "carol", LastActivity: now.AddDate(0, 0, -20), Status: domain.StatusActive},
		{Login: "mallory", LastActivity: now.AddDate(0, 0, -90), Status: domain.StatusInactive},
		{Login: "bob", Status: domain.StatusNeverActive},
	}

	s := Summarize(rows, now)

	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Inactive)
	assert.Equal(t, 1, s.NeverActive)
	assert.InDelta(t, 40.0, s.MeanDaysSinceActivity, 0.01)
	assert.InDelta(t, 20.0, s.MedianDaysSinceActivity, 0.01)
}

func TestSummarize_NoObservedActivity(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := Summarize([]domain.Row{{Login: "bob", Status: domain.StatusNeverActive}}, now)

	assert.Equal(t, 1, s.NeverActive)
	assert.Zero(t, s.MeanDaysSinceActivity)
	assert.Zero(t, s.MedianDaysSinceActivity)
}
