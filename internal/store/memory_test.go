package store

import (
	"context"
	"errors"
	"testing"

	"budgetbook/internal/core"
)

func TestMemoryLoadAbsentReturnsEmpty(t *testing.T) {
	m := NewMemory()
	data, err := m.Load(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Months) != 0 {
		t.Fatalf("expected empty data, got %+v", data)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	data := core.NewUserData()
	l := data.Ledger("2025-01")
	l.Budget = core.Money{Cents: 1000}
	l.Transactions = append(l.Transactions, core.Transaction{ID: 1, Amount: core.Money{Cents: -100}, Note: "x"})

	if err := m.Save(ctx, "a@example.com", data); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := m.Load(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	gl := got.Ledger("2025-01")
	if gl.Budget.Cents != 1000 || len(gl.Transactions) != 1 {
		t.Fatalf("round trip mismatch: %+v", gl)
	}

	// Mutating the loaded copy must not leak into the store.
	gl.Budget = core.Money{Cents: 9}
	again, _ := m.Load(ctx, "a@example.com")
	if again.Ledger("2025-01").Budget.Cents != 1000 {
		t.Fatalf("store shares state with loaded copy")
	}
}

func TestMemoryAccounts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.CreateAccount(ctx, Account{Email: "a@example.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.CreateAccount(ctx, Account{Email: "a@example.com", PasswordHash: "h2"}); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	a, err := m.GetAccount(ctx, "a@example.com")
	if err != nil || a.PasswordHash != "h" {
		t.Fatalf("get: %+v, %v", a, err)
	}
	if _, err := m.GetAccount(ctx, "b@example.com"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
