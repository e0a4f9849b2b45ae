package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/miyata-dev/github-dormant/internal/domain"
)

func TestReconciler_Reconcile(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	threshold := 60

	t.Run("union of ledger and roster with never-active detection", func(t *testing.T) {
		ledger := domain.NewLedger()
		ledger.Record("alice", now.AddDate(0, 0, -5))    // member, active
		ledger.Record("mallory", now.AddDate(0, 0, -90)) // external contributor, inactive

		fetcher := new(mockFetcher)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"zoe", "alice", "bob"}, nil)

		rows, err := NewReconciler(fetcher, testLogger()).Reconcile(context.Background(), "acme", ledger, threshold, now)
		require.NoError(t, err)

		assert.Equal(t, []domain.Row{
			{Login: "alice", LastActivity: now.AddDate(0, 0, -5), Status: domain.StatusActive},
			{Login: "mallory", LastActivity: now.AddDate(0, 0, -90), Status: domain.StatusInactive},
			{Login: "bob", Status: domain.StatusNeverActive},
			{Login: "zoe", Status: domain.StatusNeverActive},
		}, rows)
		fetcher.AssertExpectations(t)
	})

	t.Run("no duplicate rows for members with activity", func(t *testing.T) {
		ledger := domain.NewLedger()
		ledger.Record("alice", now.AddDate(0, 0, -10))

		fetcher := new(mockFetcher)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"alice"}, nil)

		rows, err := NewReconciler(fetcher, testLogger()).Reconcile(context.Background(), "acme", ledger, threshold, now)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, domain.StatusActive, rows[0].Status)
	})

	t.Run("empty ledger reports the whole roster as never-active", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"bob", "alice"}, nil)

		rows, err := NewReconciler(fetcher, testLogger()).Reconcile(context.Background(), "acme", domain.NewLedger(), threshold, now)
		require.NoError(t, err)
		assert.Equal(t, []domain.Row{
			{Login: "alice", Status: domain.StatusNeverActive},
			{Login: "bob", Status: domain.StatusNeverActive},
		}, rows)
	})

	t.Run("roster fetch failure yields a RosterError", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListMembers", mock.Anything, "acme").Return(nil, errors.New("forbidden"))

		_, err := NewReconciler(fetcher, testLogger()).Reconcile(context.Background(), "acme", domain.NewLedger(), threshold, now)
		require.Error(t, err)

		var rosterErr *RosterError
		require.ErrorAs(t, err, &rosterErr)
		assert.Equal(t, "acme", rosterErr.Org)
	})
}
