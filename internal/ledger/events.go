package ledger

import (
	"context"
	"time"

	"budgetbook/internal/core"
)

// EventOp names the mutation that produced an event.
type EventOp string

const (
	OpEnsureMonth       EventOp = "ensure_month"
	OpSetBudget         EventOp = "set_budget"
	OpAddCategory       EventOp = "add_category"
	OpUpdateCategory    EventOp = "update_category"
	OpDeleteCategory    EventOp = "delete_category"
	OpAddTransaction    EventOp = "add_transaction"
	OpDeleteTransaction EventOp = "delete_transaction"
)

// Event is a compact change notification. It carries only the coordinates of
// the change; consumers reload the user's data for current state.
type Event struct {
	User      string     `json:"user"`
	Month     core.Month `json:"month"`
	Op        EventOp    `json:"op"`
	Timestamp time.Time  `json:"timestamp"`
}

// EventPublisher delivers change events to interested consumers.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev Event) error
}
