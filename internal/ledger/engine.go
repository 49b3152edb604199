// Package ledger implements the operations over a user's monthly ledgers:
// budget, categories, transactions and their derived aggregates.
//
// Every mutating operation follows the same discipline: load the user's full
// blob, mutate a working copy, rederive all aggregates from the transaction
// list, persist the blob, then emit a change event. An operation either fully
// succeeds or fully fails; no partial mutation is ever observable.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

// Engine operates on month ledgers retrieved from a UserStore.
type Engine struct {
	store  store.UserStore
	events EventPublisher
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvents attaches a change event publisher. Publishing is best-effort:
// a failed publish is logged and never fails the operation.
func WithEvents(p EventPublisher) Option {
	return func(e *Engine) { e.events = p }
}

// WithClock overrides the transaction timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine backed by the given store.
func New(s store.UserStore, opts ...Option) *Engine {
	e := &Engine{store: s, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnsureMonth initializes a zeroed ledger for the month if absent and
// returns it. Idempotent: a second call for the same month changes nothing.
func (e *Engine) EnsureMonth(ctx context.Context, userID string, month core.Month) (*core.MonthLedger, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	data, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if l, ok := data.Months[month]; ok {
		return l, nil
	}

	l := data.Ledger(month)
	if err := e.store.Save(ctx, userID, data); err != nil {
		return nil, err
	}
	e.publish(ctx, Event{User: userID, Month: month, Op: OpEnsureMonth})
	return l, nil
}

// SetBudget sets the month's total allowance. Remaining is rederived from
// the transactions already recorded, never reset to the new budget.
func (e *Engine) SetBudget(ctx context.Context, userID string, month core.Month, amount core.Money) (*core.MonthLedger, error) {
	if err := amount.Validate(); err != nil {
		return nil, fmt.Errorf("budget: %w", err)
	}
	return e.mutate(ctx, userID, month, OpSetBudget, func(l *core.MonthLedger) error {
		l.Budget = amount
		return nil
	})
}

// AddCategory inserts a new spending bucket with the given limit and zero
// accumulated spend.
func (e *Engine) AddCategory(ctx context.Context, userID string, month core.Month, name string, limit core.Money) (*core.MonthLedger, error) {
	if err := core.ValidateCategoryName(name); err != nil {
		return nil, err
	}
	if err := limit.Validate(); err != nil {
		return nil, fmt.Errorf("category limit: %w", err)
	}
	return e.mutate(ctx, userID, month, OpAddCategory, func(l *core.MonthLedger) error {
		if _, ok := l.Categories[name]; ok {
			return fmt.Errorf("category %q already exists: %w", name, core.ErrDuplicate)
		}
		l.Categories[name] = core.Category{Limit: limit}
		return nil
	})
}

// UpdateCategory renames a category and/or changes its limit. A rename moves
// the entry to the new key and rewrites transaction references so accumulated
// spend follows the bucket.
func (e *Engine) UpdateCategory(ctx context.Context, userID string, month core.Month, oldName, newName string, limit core.Money) (*core.MonthLedger, error) {
	if err := core.ValidateCategoryName(newName); err != nil {
		return nil, err
	}
	if err := limit.Validate(); err != nil {
		return nil, fmt.Errorf("category limit: %w", err)
	}
	return e.mutate(ctx, userID, month, OpUpdateCategory, func(l *core.MonthLedger) error {
		c, ok := l.Categories[oldName]
		if !ok {
			return fmt.Errorf("category %q: %w", oldName, core.ErrNotFound)
		}
		if newName != oldName {
			if _, taken := l.Categories[newName]; taken {
				return fmt.Errorf("category %q already exists: %w", newName, core.ErrDuplicate)
			}
			delete(l.Categories, oldName)
			for i := range l.Transactions {
				if l.Transactions[i].Category == oldName {
					l.Transactions[i].Category = newName
				}
			}
		}
		c.Limit = limit
		l.Categories[newName] = c
		return nil
	})
}

// DeleteCategory removes the bucket. Transactions that referenced it are
// kept with a now-dangling category name: the transaction list is the source
// of truth for spend history, and overall remaining must not change just
// because a bucket went away.
func (e *Engine) DeleteCategory(ctx context.Context, userID string, month core.Month, name string) (*core.MonthLedger, error) {
	return e.mutate(ctx, userID, month, OpDeleteCategory, func(l *core.MonthLedger) error {
		if _, ok := l.Categories[name]; !ok {
			return fmt.Errorf("category %q: %w", name, core.ErrNotFound)
		}
		delete(l.Categories, name)
		return nil
	})
}

// AddTransaction records an expense. The amount is the user-entered positive
// magnitude; it is stored negated. Category is optional but must exist when
// given. The id comes from the month's monotonic counter and is never reused,
// even after deletes.
func (e *Engine) AddTransaction(ctx context.Context, userID string, month core.Month, amount core.Money, note, category string) (*core.MonthLedger, error) {
	if err := amount.Validate(); err != nil {
		return nil, fmt.Errorf("transaction amount: %w", err)
	}
	if err := core.ValidateNote(note); err != nil {
		return nil, err
	}

	l, err := e.mutate(ctx, userID, month, OpAddTransaction, func(l *core.MonthLedger) error {
		if category != "" {
			if _, ok := l.Categories[category]; !ok {
				return fmt.Errorf("category %q: %w", category, core.ErrNotFound)
			}
		}
		l.LastTxnID++
		l.Transactions = append(l.Transactions, core.Transaction{
			ID:       l.LastTxnID,
			Amount:   amount.Neg(),
			Note:     strings.TrimSpace(note),
			Category: category,
			Date:     e.now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteTransaction removes the transaction with the given id. The following
// recompute restores remaining and the category's spend to exactly what they
// were before the transaction was added.
func (e *Engine) DeleteTransaction(ctx context.Context, userID string, month core.Month, id int64) (*core.MonthLedger, error) {
	return e.mutate(ctx, userID, month, OpDeleteTransaction, func(l *core.MonthLedger) error {
		i := l.FindTransaction(id)
		if i < 0 {
			return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
		}
		l.Transactions = append(l.Transactions[:i], l.Transactions[i+1:]...)
		return nil
	})
}

// Search returns the month's transactions whose note or category contains
// the query, case-insensitively, in insertion order. Read-only: the returned
// slice is a filtered copy, never the stored list.
func (e *Engine) Search(ctx context.Context, userID string, month core.Month, query string) ([]core.Transaction, error) {
	data, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	l, ok := data.Months[month]
	if !ok {
		return nil, nil
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var out []core.Transaction
	for _, t := range l.Transactions {
		if q == "" ||
			strings.Contains(strings.ToLower(t.Note), q) ||
			strings.Contains(strings.ToLower(t.Category), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

// MonthlySummary returns one row per stored month, most recent first.
func (e *Engine) MonthlySummary(ctx context.Context, userID string) ([]core.MonthSummary, error) {
	data, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.Summarize(data), nil
}

// Warnings derives the budget warnings for a month. Reads current state;
// months never touched yield the no-budget warning of a zeroed ledger.
func (e *Engine) Warnings(ctx context.Context, userID string, month core.Month) ([]core.Warning, error) {
	data, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	l, ok := data.Months[month]
	if !ok {
		l = core.NewMonthLedger()
	}
	return core.BudgetWarnings(l), nil
}

// mutate runs fn against a working copy of the month's ledger, recomputes
// the aggregates and persists on success.
func (e *Engine) mutate(ctx context.Context, userID string, month core.Month, op EventOp, fn func(*core.MonthLedger) error) (*core.MonthLedger, error) {
	if err := month.Validate(); err != nil {
		return nil, err
	}
	data, err := e.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	working := data.Clone()
	l := working.Ledger(month)
	if err := fn(l); err != nil {
		return nil, err
	}
	l.Recompute()

	if err := e.store.Save(ctx, userID, working); err != nil {
		return nil, err
	}
	e.publish(ctx, Event{User: userID, Month: month, Op: op})
	return l, nil
}

func (e *Engine) publish(ctx context.Context, ev Event) {
	if e.events == nil {
		return
	}
	ev.Timestamp = e.now().UTC()
	if err := e.events.PublishLedgerEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"user", ev.User,
			"month", ev.Month,
			"op", ev.Op,
			"error", err)
	}
}
