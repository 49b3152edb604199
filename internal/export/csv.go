package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"budgetbook/internal/core"
)

// CSVWriter appends summary rows to a local CSV file. Each export run adds
// one row per month with the export timestamp, so the file doubles as a
// coarse history of how the numbers moved.
type CSVWriter struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var _ SummaryWriter = (*CSVWriter)(nil)

// NewCSVWriter creates a writer targeting path. The directory is created on
// first write if missing.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path, now: time.Now}
}

// WriteSummaries implements SummaryWriter.
func (w *CSVWriter) WriteSummaries(ctx context.Context, user string, rows []core.MonthSummary) error {
	if len(rows) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	_, statErr := os.Stat(w.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write([]string{"exported_at", "user", "month", "total_spent_cents", "budget_cents", "status"}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	exportedAt := w.now().UTC().Format(time.RFC3339)
	for _, row := range rows {
		record := []string{
			exportedAt,
			user,
			string(row.Month),
			strconv.FormatInt(row.TotalSpent.Cents, 10),
			strconv.FormatInt(row.Budget.Cents, 10),
			string(row.Status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}

	slog.InfoContext(ctx, "Summaries exported to CSV",
		"user", user,
		"rows", len(rows),
		"path", w.path)
	return nil
}
