package core

import "sort"

// WarningKind classifies a budget warning.
type WarningKind string

const (
	// WarningNoBudgetSet fires when the month has no budget recorded yet.
	WarningNoBudgetSet WarningKind = "no_budget_set"
	// WarningOverallOverBudget fires when remaining has gone negative.
	WarningOverallOverBudget WarningKind = "overall_over_budget"
	// WarningCategoryOverLimit fires per category whose spend exceeds its limit.
	WarningCategoryOverLimit WarningKind = "category_over_limit"
)

// Warning is one budget condition worth surfacing to the user. Category is
// set only for WarningCategoryOverLimit.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	Category string      `json:"category,omitempty"`
}

// BudgetWarnings derives the warnings for a ledger. Pure function: it reads
// the stored aggregates and never touches storage, so callers should
// Recompute first if the ledger may be stale.
//
// Only categories that still exist are reported; deleting a category also
// retires its over-limit warning even though the transactions remain.
func BudgetWarnings(l *MonthLedger) []Warning {
	var warnings []Warning
	if l.Budget.Cents == 0 {
		warnings = append(warnings, Warning{Kind: WarningNoBudgetSet})
	}
	if l.Remaining.Cents < 0 {
		warnings = append(warnings, Warning{Kind: WarningOverallOverBudget})
	}

	names := make([]string, 0, len(l.Categories))
	for name := range l.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := l.Categories[name]
		if c.Spent.Cents > c.Limit.Cents {
			warnings = append(warnings, Warning{Kind: WarningCategoryOverLimit, Category: name})
		}
	}
	return warnings
}
