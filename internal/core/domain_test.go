package core

import (
	"testing"
	"time"
)

func TestMonthValidate(t *testing.T) {
	cases := []struct {
		m  Month
		ok bool
	}{
		{"2025-01", true},
		{"2025-12", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-1", false},
		{"202501", false},
		{"", false},
		{"abcd-ef", false},
	}
	for _, tc := range cases {
		err := tc.m.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.m, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.m)
		}
	}
}

func TestMonthOf(t *testing.T) {
	got := MonthOf(time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC))
	if got != "2025-03" {
		t.Fatalf("expected 2025-03, got %q", got)
	}
}

func TestRecomputeDerivesAggregates(t *testing.T) {
	l := NewMonthLedger()
	l.Budget = Money{Cents: 100_000}
	l.Categories["Food"] = Category{Limit: Money{Cents: 30_000}}
	l.Transactions = []Transaction{
		{ID: 1, Amount: Money{Cents: -5_000}, Note: "lunch", Category: "Food"},
		{ID: 2, Amount: Money{Cents: -2_000}, Note: "cash", Category: ""},
		{ID: 3, Amount: Money{Cents: -1_000}, Note: "gone", Category: "Deleted"},
	}
	// Seed the aggregates with garbage: Recompute must not trust them.
	l.Remaining = Money{Cents: 999}
	l.Categories["Food"] = Category{Limit: Money{Cents: 30_000}, Spent: Money{Cents: 999}}

	l.Recompute()

	if l.Remaining.Cents != 100_000-8_000 {
		t.Fatalf("remaining: got %d", l.Remaining.Cents)
	}
	if got := l.Categories["Food"].Spent.Cents; got != 5_000 {
		t.Fatalf("Food.spent: got %d", got)
	}
}

func TestRecomputeResetsSpentWhenNoTransactions(t *testing.T) {
	l := NewMonthLedger()
	l.Budget = Money{Cents: 1_000}
	l.Categories["Food"] = Category{Limit: Money{Cents: 500}, Spent: Money{Cents: 123}}
	l.Recompute()
	if got := l.Categories["Food"].Spent.Cents; got != 0 {
		t.Fatalf("spent should reset to 0, got %d", got)
	}
	if l.Remaining.Cents != 1_000 {
		t.Fatalf("remaining: got %d", l.Remaining.Cents)
	}
}

func TestUserDataLedgerLazyInit(t *testing.T) {
	d := NewUserData()
	l1 := d.Ledger("2025-01")
	if l1.Budget.Cents != 0 || l1.Remaining.Cents != 0 {
		t.Fatalf("fresh ledger not zeroed: %+v", l1)
	}
	if len(l1.Categories) != 0 || len(l1.Transactions) != 0 {
		t.Fatalf("fresh ledger not empty: %+v", l1)
	}
	l1.Budget = Money{Cents: 42}
	l2 := d.Ledger("2025-01")
	if l2.Budget.Cents != 42 {
		t.Fatalf("second access should return the same ledger")
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := NewUserData()
	l := d.Ledger("2025-01")
	l.Categories["Food"] = Category{Limit: Money{Cents: 100}}
	l.Transactions = append(l.Transactions, Transaction{ID: 1, Amount: Money{Cents: -10}})

	c := d.Clone()
	cl := c.Ledger("2025-01")
	cl.Categories["Food"] = Category{Limit: Money{Cents: 999}}
	cl.Transactions[0].Amount = Money{Cents: -999}

	if l.Categories["Food"].Limit.Cents != 100 {
		t.Fatalf("clone shares category map")
	}
	if l.Transactions[0].Amount.Cents != -10 {
		t.Fatalf("clone shares transaction slice")
	}
}

func TestBudgetWarnings(t *testing.T) {
	t.Run("no budget set", func(t *testing.T) {
		l := NewMonthLedger()
		ws := BudgetWarnings(l)
		if len(ws) != 1 || ws[0].Kind != WarningNoBudgetSet {
			t.Fatalf("expected no_budget_set, got %+v", ws)
		}
	})

	t.Run("overall over budget", func(t *testing.T) {
		l := NewMonthLedger()
		l.Budget = Money{Cents: 100}
		l.Transactions = []Transaction{{ID: 1, Amount: Money{Cents: -150}, Note: "rent"}}
		l.Recompute()
		ws := BudgetWarnings(l)
		if len(ws) != 1 || ws[0].Kind != WarningOverallOverBudget {
			t.Fatalf("expected overall_over_budget, got %+v", ws)
		}
	})

	t.Run("category over limit", func(t *testing.T) {
		l := NewMonthLedger()
		l.Budget = Money{Cents: 1_000_000}
		l.Categories["Food"] = Category{Limit: Money{Cents: 300}}
		l.Transactions = []Transaction{{ID: 1, Amount: Money{Cents: -310}, Note: "dinner", Category: "Food"}}
		l.Recompute()
		ws := BudgetWarnings(l)
		if len(ws) != 1 || ws[0].Kind != WarningCategoryOverLimit || ws[0].Category != "Food" {
			t.Fatalf("expected category_over_limit(Food), got %+v", ws)
		}
	})

	t.Run("deleted category retires its warning", func(t *testing.T) {
		l := NewMonthLedger()
		l.Budget = Money{Cents: 1_000_000}
		l.Categories["Food"] = Category{Limit: Money{Cents: 300}}
		l.Transactions = []Transaction{{ID: 1, Amount: Money{Cents: -310}, Note: "dinner", Category: "Food"}}
		l.Recompute()
		delete(l.Categories, "Food")
		l.Recompute()
		for _, w := range BudgetWarnings(l) {
			if w.Kind == WarningCategoryOverLimit {
				t.Fatalf("warning survived category deletion: %+v", w)
			}
		}
	})
}

func TestSummarize(t *testing.T) {
	d := NewUserData()
	jan := d.Ledger("2025-01")
	jan.Budget = Money{Cents: 100}
	jan.Transactions = []Transaction{{ID: 1, Amount: Money{Cents: -150}, Note: "rent"}}
	mar := d.Ledger("2025-03")
	mar.Budget = Money{Cents: 500}
	mar.Transactions = []Transaction{{ID: 1, Amount: Money{Cents: -100}, Note: "food"}}

	rows := Summarize(d)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Month != "2025-03" || rows[1].Month != "2025-01" {
		t.Fatalf("expected most recent first, got %v then %v", rows[0].Month, rows[1].Month)
	}
	if rows[0].Status != StatusOnTrack {
		t.Fatalf("2025-03 expected on_track, got %v", rows[0].Status)
	}
	if rows[1].Status != StatusOverBudget {
		t.Fatalf("2025-01 expected over_budget, got %v", rows[1].Status)
	}
	if rows[1].TotalSpent.Cents != 150 {
		t.Fatalf("2025-01 total spent: got %d", rows[1].TotalSpent.Cents)
	}
}
