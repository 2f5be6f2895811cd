package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The shell renders these as messages and the handler layer maps them
// to HTTP status codes. None of them leaves state changed.
var (
	ErrSymbolNotFound     = errors.New("symbol_not_found")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrInsufficientShares = errors.New("insufficient_shares")
)

// ValidationError represents a malformed amount or quantity.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
