// Package report renders per-organization activity reports.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/miyata-dev/github-dormant/internal/domain"
)

const (
	dateLayout      = "02-01-2006"
	fileStampLayout = "20060102_150405"
	notAvailable    = "N/A"
)

// WriteCSV writes one report file for the organization into dir and returns
// its path. The wire format matches what downstream consumers of the report
// expect: a Users/Last activity/active header, DD-MM-YYYY dates, N/A for
// users with no recorded activity.
func WriteCSV(dir, org string, rows []domain.Row, generatedAt time.Time) (string, error) {
	name := fmt.Sprintf("user_activity_report_%s_%s.csv", org, generatedAt.UTC().Format(fileStampLayout))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Users", "Last activity", "active"}); err != nil {
		return "", fmt.Errorf("failed to write report header: %w", err)
	}
	for _, row := range rows {
		last := notAvailable
		if row.Status != domain.StatusNeverActive {
			last = row.LastActivity.UTC().Format(dateLayout)
		}
		if err := w.Write([]string{row.Login, last, string(row.Status)}); err != nil {
			return "", fmt.Errorf("failed to write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush report: %w", err)
	}
	return path, nil
}
