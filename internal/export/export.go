// Package export writes derived monthly summaries to external targets.
// Export is one-way and carries derived data only; the stored ledger blob
// remains the single source of truth.
package export

import (
	"context"

	"budgetbook/internal/core"
)

// SummaryWriter appends one user's monthly summary rows to a target.
type SummaryWriter interface {
	WriteSummaries(ctx context.Context, user string, rows []core.MonthSummary) error
}
