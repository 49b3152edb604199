package core

import "errors"

// Error kinds. Every failure produced by the ledger wraps exactly one of
// these, so callers can classify with errors.Is without inspecting messages.
var (
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("duplicate error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)
