// Package store persists per-user ledger data as a single blob per user,
// mirroring a one-document-per-user key-value model: load the whole blob,
// mutate in memory, write the whole blob back. Concurrent writers race on
// last-write-wins at blob granularity; no finer guarantee is offered.
package store

import (
	"context"
	"time"

	"budgetbook/internal/core"
)

// UserStore maps a user identifier (email, case-sensitive, used verbatim)
// to that user's ledger data.
type UserStore interface {
	// Load returns the stored data for the user, or a fresh empty structure
	// if none exists. Absence is not an error.
	Load(ctx context.Context, userID string) (core.UserData, error)

	// Save replaces the full stored blob for the user.
	Save(ctx context.Context, userID string, data core.UserData) error
}

// UserLister enumerates users that have stored ledger data. Used by the
// export worker's periodic full pass.
type UserLister interface {
	ListUsers(ctx context.Context) ([]string, error)
}

// Account is a registered user record. The password is stored only as a
// bcrypt hash.
type Account struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore persists registered user accounts.
type AccountStore interface {
	// CreateAccount inserts a new account. Returns an error wrapping
	// core.ErrDuplicate when the email is already registered.
	CreateAccount(ctx context.Context, account Account) error

	// GetAccount fetches an account by email. Returns an error wrapping
	// core.ErrNotFound when no such account exists.
	GetAccount(ctx context.Context, email string) (Account, error)
}
