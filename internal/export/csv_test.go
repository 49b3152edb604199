package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"budgetbook/internal/core"
)

func TestCSVWriterAppendsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summaries.csv")
	w := NewCSVWriter(path)
	w.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	rows := []core.MonthSummary{
		{Month: "2025-06", TotalSpent: core.Money{Cents: 31_000_000}, Budget: core.Money{Cents: 100_000_000}, Status: core.StatusOnTrack},
		{Month: "2025-05", TotalSpent: core.Money{Cents: 15_000_000}, Budget: core.Money{Cents: 10_000_000}, Status: core.StatusOverBudget},
	}
	if err := w.WriteSummaries(ctx, "a@example.com", rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Second run appends without another header.
	if err := w.WriteSummaries(ctx, "a@example.com", rows[:1]); err != nil {
		t.Fatalf("write again: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 4 { // header + 2 + 1
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[0][0] != "exported_at" {
		t.Fatalf("missing header: %v", records[0])
	}
	if records[1][1] != "a@example.com" || records[1][2] != "2025-06" {
		t.Fatalf("row mismatch: %v", records[1])
	}
	if records[2][5] != string(core.StatusOverBudget) {
		t.Fatalf("status mismatch: %v", records[2])
	}
}

func TestCSVWriterNoRowsIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.csv")
	w := NewCSVWriter(path)
	if err := w.WriteSummaries(context.Background(), "a@example.com", nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should not exist after empty write")
	}
}
