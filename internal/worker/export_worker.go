// Package worker drives the out-of-band summary export. It reacts to ledger
// change events from AMQP and additionally re-exports everything on a timer,
// so lost messages only delay an export instead of losing it.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

// SummaryWriter matches export.SummaryWriter. Declared here so the worker
// depends on the behavior, not the export package.
type SummaryWriter interface {
	WriteSummaries(ctx context.Context, user string, rows []core.MonthSummary) error
}

// Store is the read side the worker needs: load one user's data, and
// enumerate users for the periodic full pass.
type Store interface {
	store.UserStore
	store.UserLister
}

// ExportWorker recomputes monthly summaries and pushes them to every
// configured writer.
type ExportWorker struct {
	store   Store
	writers []SummaryWriter
}

func NewExportWorker(store Store, writers ...SummaryWriter) *ExportWorker {
	return &ExportWorker{
		store:   store,
		writers: writers,
	}
}

// HandleLedgerEvent processes a single ledger change message from AMQP. The
// message only names the user; current state is always reloaded from the
// store, so stale or reordered messages converge on the same output.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"user", msg.User,
		"month", msg.Month,
		"op", msg.Op)

	if err := w.exportUser(ctx, msg.User); err != nil {
		return fmt.Errorf("export summaries for %q: %w", msg.User, err)
	}
	return nil
}

// ExportAll exports summaries for every user with stored data. This is the
// backup mechanism in case AMQP messages are lost, and the whole mechanism
// when AMQP is disabled.
func (w *ExportWorker) ExportAll(ctx context.Context) error {
	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Running full export pass", "users", len(users))

	errorCount := 0
	for _, user := range users {
		if err := w.exportUser(ctx, user); err != nil {
			slog.ErrorContext(ctx, "Failed to export user summaries",
				"user", user,
				"error", err)
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("full export pass: %d of %d users failed", errorCount, len(users))
	}
	return nil
}

// RunPeriodic runs ExportAll on the given interval until ctx is canceled.
// One pass runs immediately so a fresh worker catches up on missed events.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if err := w.ExportAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup export pass failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export pass failed", "error", err)
			}
		}
	}
}

func (w *ExportWorker) exportUser(ctx context.Context, user string) error {
	data, err := w.store.Load(ctx, user)
	if err != nil {
		return fmt.Errorf("load user data: %w", err)
	}

	rows := core.Summarize(data)
	if len(rows) == 0 {
		return nil
	}

	for _, writer := range w.writers {
		if err := writer.WriteSummaries(ctx, user, rows); err != nil {
			return fmt.Errorf("write summaries: %w", err)
		}
	}

	slog.InfoContext(ctx, "Exported user summaries",
		"user", user,
		"months", len(rows))
	return nil
}
