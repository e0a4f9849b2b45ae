package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/miyata-dev/github-dormant/internal/domain"
)

// TestRunOrganization covers the full pipeline against a mocked gateway:
// collect, reconcile, classify.
func TestRunOrganization(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	threshold := 60
	since := now.AddDate(0, 0, -threshold)
	noEvents := []domain.Event{}

	t.Run("commit exactly on the boundary reports active", func(t *testing.T) {
		boundary := now.AddDate(0, 0, -threshold)

		fetcher := new(mockFetcher)
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]string{"repo-a"}, nil)
		fetcher.On("ListBranches", mock.Anything, "acme", "repo-a").Return([]string{"main"}, nil)
		fetcher.On("FetchCommitActivity", mock.Anything, "acme", "repo-a", "main", since).Return([]domain.Event{
			{Login: "alice", Timestamp: boundary, Kind: domain.KindCommit},
		}, nil)
		fetcher.On("FetchIssueActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("FetchPullRequestActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"alice"}, nil)

		report, err := RunOrganization(context.Background(), fetcher, testPacer(), testLogger(), "acme", threshold, now)
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		assert.Equal(t, domain.Row{Login: "alice", LastActivity: boundary, Status: domain.StatusActive}, report.Rows[0])
	})

	t.Run("member with no activity anywhere is never-active", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]string{"repo-a"}, nil)
		fetcher.On("ListBranches", mock.Anything, "acme", "repo-a").Return([]string{"main"}, nil)
		fetcher.On("FetchCommitActivity", mock.Anything, "acme", "repo-a", "main", since).Return(noEvents, nil)
		fetcher.On("FetchIssueActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("FetchPullRequestActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"bob"}, nil)

		report, err := RunOrganization(context.Background(), fetcher, testPacer(), testLogger(), "acme", threshold, now)
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		assert.Equal(t, "bob", report.Rows[0].Login)
		assert.Equal(t, domain.StatusNeverActive, report.Rows[0].Status)
		assert.True(t, report.Rows[0].LastActivity.IsZero())
	})

	t.Run("latest source wins across kinds", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]string{"repo-a"}, nil)
		fetcher.On("ListBranches", mock.Anything, "acme", "repo-a").Return([]string{"main"}, nil)
		fetcher.On("FetchCommitActivity", mock.Anything, "acme", "repo-a", "main", since).Return([]domain.Event{
			{Login: "carol", Timestamp: now.AddDate(0, 0, -10), Kind: domain.KindCommit},
		}, nil)
		fetcher.On("FetchIssueActivity", mock.Anything, "acme", "repo-a", since).Return([]domain.Event{
			{Login: "carol", Timestamp: now.AddDate(0, 0, -100), Kind: domain.KindIssue},
		}, nil)
		fetcher.On("FetchPullRequestActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"carol"}, nil)

		report, err := RunOrganization(context.Background(), fetcher, testPacer(), testLogger(), "acme", threshold, now)
		require.NoError(t, err)

		require.Len(t, report.Rows, 1)
		assert.Equal(t, now.AddDate(0, 0, -10), report.Rows[0].LastActivity)
		assert.Equal(t, domain.StatusActive, report.Rows[0].Status)
	})

	t.Run("branchless repository does not disturb the rest of the run", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]string{"empty-repo", "repo-a"}, nil)
		fetcher.On("ListBranches", mock.Anything, "acme", "empty-repo").Return([]string{}, nil)
		fetcher.On("ListBranches", mock.Anything, "acme", "repo-a").Return([]string{"main"}, nil)
		fetcher.On("FetchCommitActivity", mock.Anything, "acme", "repo-a", "main", since).Return([]domain.Event{
			{Login: "alice", Timestamp: now.AddDate(0, 0, -1), Kind: domain.KindCommit},
		}, nil)
		fetcher.On("FetchIssueActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("FetchPullRequestActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"alice"}, nil)

		report, err := RunOrganization(context.Background(), fetcher, testPacer(), testLogger(), "acme", threshold, now)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Summary.ReposWithoutBranches)
		require.Len(t, report.Rows, 1)
		assert.Equal(t, domain.StatusActive, report.Rows[0].Status)
	})

	t.Run("external contributor appears alongside roster members", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("ListRepositories", mock.Anything, "acme").Return([]string{"repo-a"}, nil)
		fetcher.On("ListBranches", mock.Anything, "acme", "repo-a").Return([]string{"main"}, nil)
		fetcher.On("FetchCommitActivity", mock.Anything, "acme", "repo-a", "main", since).Return([]domain.Event{
			{Login: "drive-by", Timestamp: now.AddDate(0, 0, -80), Kind: domain.KindCommit},
		}, nil)
		fetcher.On("FetchIssueActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("FetchPullRequestActivity", mock.Anything, "acme", "repo-a", since).Return(noEvents, nil)
		fetcher.On("ListMembers", mock.Anything, "acme").Return([]string{"bob"}, nil)

		report, err := RunOrganization(context.Background(), fetcher, testPacer(), testLogger(), "acme", threshold, now)
		require.NoError(t, err)

		byLogin := map[string]domain.Row{}
		for _, row := range report.Rows {
			byLogin[row.Login] = row
		}
		require.Len(t, byLogin, 2)
		assert.Equal(t, domain.StatusInactive, byLogin["drive-by"].Status)
		assert.Equal(t, domain.StatusNeverActive, byLogin["bob"].Status)
	})
}
