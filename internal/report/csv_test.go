package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miyata-dev/github-dormant/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	generatedAt := time.Date(2024, 6, 1, 9, 30, 15, 0, time.UTC)
	rows := []domain.Row{
		{Login: "alice", LastActivity: time.Date(2024, 5, 20, 14, 0, 0, 0, time.UTC), Status: domain.StatusActive},
		{Login: "mallory", LastActivity: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), Status: domain.StatusInactive},
		{Login: "bob", Status: domain.StatusNeverActive},
	}

	path, err := WriteCSV(dir, "acme", rows, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "user_activity_report_acme_20240601_093015.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Users,Last activity,active\n"+
			"alice,20-05-2024,true\n"+
			"mallory,02-01-2024,false\n"+
			"bob,N/A,never-active\n",
		string(data))
}

func TestWriteCSV_EmptyReportStillHasHeader(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteCSV(dir, "acme", nil, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Users,Last activity,active\n", string(data))
}

func TestWriteCSV_BadDirectory(t *testing.T) {
	_, err := WriteCSV(filepath.Join(t.TempDir(), "missing"), "acme", nil, time.Now())
	assert.Error(t, err)
}
