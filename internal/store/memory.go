package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"budgetbook/internal/core"
)

// Memory is an in-process store used by tests and the "memory" backend.
// Blobs are deep-copied on the way in and out so callers can never mutate
// stored state without going through Save.
type Memory struct {
	mu       sync.Mutex
	data     map[string]core.UserData
	accounts map[string]Account
}

var (
	_ UserStore    = (*Memory)(nil)
	_ AccountStore = (*Memory)(nil)
	_ UserLister   = (*Memory)(nil)
)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]core.UserData),
		accounts: make(map[string]Account),
	}
}

// Load implements UserStore.
func (m *Memory) Load(_ context.Context, userID string) (core.UserData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[userID]
	if !ok {
		return core.NewUserData(), nil
	}
	return d.Clone(), nil
}

// Save implements UserStore.
func (m *Memory) Save(_ context.Context, userID string, data core.UserData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = data.Clone()
	return nil
}

// ListUsers implements UserLister. Order is unspecified.
func (m *Memory) ListUsers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]string, 0, len(m.data))
	for u := range m.data {
		users = append(users, u)
	}
	return users, nil
}

// CreateAccount implements AccountStore.
func (m *Memory) CreateAccount(_ context.Context, account Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Email]; ok {
		return fmt.Errorf("account %q already registered: %w", account.Email, core.ErrDuplicate)
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	m.accounts[account.Email] = account
	return nil
}

// GetAccount implements AccountStore.
func (m *Memory) GetAccount(_ context.Context, email string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return Account{}, fmt.Errorf("account %q: %w", email, core.ErrNotFound)
	}
	return a, nil
}
