package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/store"
)

func newTestService() *Service {
	return NewService(store.NewMemory(), 100, time.Minute)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"ok", "a@example.com", "secret1", nil},
		{"bad email no at", "example.com", "secret1", core.ErrValidation},
		{"bad email no domain", "a@", "secret1", core.ErrValidation},
		{"bad email spaces", "a b@example.com", "secret1", core.ErrValidation},
		{"short password", "b@example.com", "12345", core.ErrValidation},
		{"duplicate email", "a@example.com", "secret2", core.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Register(ctx, tc.email, tc.password)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoginAndSession(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	if err := s.Register(ctx, "a@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := s.Login(ctx, "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Login(ctx, "ghost@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	token, err := s.Login(ctx, "a@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}

	if got := s.CurrentUser(token); got != "a@example.com" {
		t.Fatalf("current user: got %q", got)
	}
	if got := s.CurrentUser("bogus"); got != "" {
		t.Fatalf("bogus token resolved to %q", got)
	}

	s.Logout(token)
	if got := s.CurrentUser(token); got != "" {
		t.Fatalf("token survived logout: %q", got)
	}
}

func TestSessionExpiry(t *testing.T) {
	s := NewService(store.NewMemory(), 100, 10*time.Millisecond)
	ctx := context.Background()
	if err := s.Register(ctx, "a@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := s.Login(ctx, "a@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if got := s.CurrentUser(token); got != "" {
		t.Fatalf("expired session resolved to %q", got)
	}
}

func TestPasswordsAreHashed(t *testing.T) {
	mem := store.NewMemory()
	s := NewService(mem, 100, time.Minute)
	ctx := context.Background()
	if err := s.Register(ctx, "a@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	a, err := mem.GetAccount(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if a.PasswordHash == "secret1" || a.PasswordHash == "" {
		t.Fatalf("password stored in the clear: %q", a.PasswordHash)
	}
}
