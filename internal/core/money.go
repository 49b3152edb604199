// Package core defines the monthly ledger data model: money amounts,
// categories, transactions and the derived aggregates that tie them together.
//
// This file contains money parsing and handling. Amounts are kept as integer
// cents; floats appear only at presentation boundaries.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a monetary amount in cents. Transaction amounts are signed
// (expenses are negative); budgets, limits and accumulated spend are
// non-negative magnitudes.
type Money struct {
	Cents int64 `json:"cents"`
}

// Abs returns the absolute magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Neg returns the amount with the sign flipped.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Validate checks that the amount is a strictly positive magnitude.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	return nil
}

// ParseDecimalToCents converts a decimal string to positive cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Signed input, zero
// and anything non-numeric are rejected with ErrValidation: user-entered
// amounts are always positive magnitudes, the expense sign convention is
// applied by the ledger, not the parser.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount: %w", ErrValidation)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("signed amount %q: %w", s, ErrValidation)
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("malformed amount %q: %w", s, ErrValidation)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("malformed amount %q: %w", s, ErrValidation)
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, ErrValidation)
	}
	// Guard the *100 below.
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, fmt.Errorf("amount %q out of range: %w", s, ErrValidation)
	}
	// First two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	return cents, nil
}
