package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgetbook/internal/core"

	_ "modernc.org/sqlite"
)

// SQLite keeps one row per user: the email and the JSON-encoded UserData
// blob. The whole-blob layout matches the load/mutate/save discipline of the
// ledger engine; there is deliberately no per-transaction table to drift out
// of step with.
type SQLite struct {
	db *sql.DB
}

var (
	_ UserStore    = (*SQLite)(nil)
	_ UserLister   = (*SQLite)(nil)
	_ AccountStore = (*SQLite)(nil)
)

// OpenSQLite opens (or creates) the database at dbPath and applies pending
// migrations.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements UserStore.
func (s *SQLite) Load(ctx context.Context, userID string) (core.UserData, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM user_data WHERE email = ?`, userID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewUserData(), nil
	}
	if err != nil {
		return core.UserData{}, fmt.Errorf("load user data for %q: %v: %w", userID, err, core.ErrStorage)
	}

	var data core.UserData
	if err := json.Unmarshal(blob, &data); err != nil {
		return core.UserData{}, fmt.Errorf("decode user data for %q: %v: %w", userID, err, core.ErrStorage)
	}
	if data.Months == nil {
		data.Months = make(map[core.Month]*core.MonthLedger)
	}
	return data, nil
}

// Save implements UserStore. The row is replaced wholesale; interleaved
// writers race on last-write-wins.
func (s *SQLite) Save(ctx context.Context, userID string, data core.UserData) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode user data for %q: %v: %w", userID, err, core.ErrStorage)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_data (email, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, blob, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save user data for %q: %v: %w", userID, err, core.ErrStorage)
	}

	slog.DebugContext(ctx, "User data saved",
		"user", userID,
		"bytes", len(blob))
	return nil
}

// ListUsers implements UserLister.
func (s *SQLite) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT email FROM user_data ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %v: %w", err, core.ErrStorage)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan user row: %v: %w", err, core.ErrStorage)
		}
		users = append(users, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %v: %w", err, core.ErrStorage)
	}
	return users, nil
}

// CreateAccount implements AccountStore.
func (s *SQLite) CreateAccount(ctx context.Context, account Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accounts WHERE email = ?`, account.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check account %q: %v: %w", account.Email, err, core.ErrStorage)
	}
	if exists > 0 {
		return fmt.Errorf("account %q already registered: %w", account.Email, core.ErrDuplicate)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash, created_at) VALUES (?, ?, ?)`,
		account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("create account %q: %v: %w", account.Email, err, core.ErrStorage)
	}

	slog.InfoContext(ctx, "Account created", "email", account.Email)
	return nil
}

// GetAccount implements AccountStore.
func (s *SQLite) GetAccount(ctx context.Context, email string) (Account, error) {
	var a Account
	err := s.db.QueryRowContext(ctx,
		`SELECT email, password_hash, created_at FROM accounts WHERE email = ?`, email).
		Scan(&a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("account %q: %w", email, core.ErrNotFound)
	}
	if err != nil {
		return Account{}, fmt.Errorf("get account %q: %v: %w", email, err, core.ErrStorage)
	}
	return a, nil
}
