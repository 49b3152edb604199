package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"50000", 5000000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("%q expected ErrValidation, got %v", tc.in, err)
			}
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: -250}
	if a.Abs().Cents != 250 {
		t.Fatalf("Abs: got %d", a.Abs().Cents)
	}
	if a.Neg().Cents != 250 {
		t.Fatalf("Neg: got %d", a.Neg().Cents)
	}
	b := Money{Cents: 100}
	if got := b.Add(Money{Cents: 50}).Cents; got != 150 {
		t.Fatalf("Add: got %d", got)
	}
	if got := b.Sub(Money{Cents: 150}).Cents; got != -50 {
		t.Fatalf("Sub: got %d", got)
	}
}
