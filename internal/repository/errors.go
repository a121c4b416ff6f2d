package repository

import "errors"

// Guarded-update misses. The WHERE clause of the mutating statement is
// the final authority on business preconditions, so a zero-row update
// surfaces as one of these instead of silently succeeding.
var (
	ErrInsufficientBalance = errors.New("balance below job price")
	ErrAlreadySettled      = errors.New("job already settled")
	ErrDepositNotAllowed   = errors.New("deposit exceeds allowed cap")
)
