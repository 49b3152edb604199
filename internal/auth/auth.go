// Package auth handles registration, login and the session tokens that
// identify the current user. The ledger itself never sees credentials; it
// only consumes the email that a valid session resolves to.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	"budgetbook/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// ErrInvalidCredentials is returned by Login when the email is unknown or
// the password does not match. The two cases are deliberately not
// distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service registers accounts and manages login sessions. Sessions are held
// in memory with a TTL; restarting the process logs everyone out.
type Service struct {
	accounts store.AccountStore
	sessions *cache.LRU[string]
}

// NewService creates an auth service. maxSessions bounds the number of live
// sessions; ttl is how long a session stays valid without being refreshed.
func NewService(accounts store.AccountStore, maxSessions int, ttl time.Duration) *Service {
	return &Service{
		accounts: accounts,
		sessions: cache.NewLRU[string](maxSessions, ttl),
	}
}

// Register creates a new account. The email must look like an address, the
// password must have at least MinPasswordLength characters, and the email
// must not already be registered.
func (s *Service) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email %q: %w", email, core.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password shorter than %d characters: %w", MinPasswordLength, core.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.CreateAccount(ctx, store.Account{
		Email:        email,
		PasswordHash: string(hash),
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "User registered", "user", email)
	return nil
}

// Login verifies the credentials and returns a fresh session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	s.sessions.Set(token, email)

	slog.InfoContext(ctx, "User logged in", "user", email)
	return token, nil
}

// Logout invalidates the session token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.sessions.Delete(token)
}

// CurrentUser resolves a session token to the logged-in email. The empty
// string means no valid session.
func (s *Service) CurrentUser(token string) string {
	email, ok := s.sessions.Get(token)
	if !ok {
		return ""
	}
	// Refresh the TTL on use.
	s.sessions.Set(token, email)
	return email
}

// Sessions exposes the session cache for periodic cleanup.
func (s *Service) Sessions() cache.Cleaner {
	return s.sessions
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
