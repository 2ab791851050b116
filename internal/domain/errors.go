package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("transaction already exists")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidType          = errors.New("type must be income or expense")
	ErrInvalidConcept       = errors.New("invalid concept")
	ErrInvalidDate          = errors.New("invalid date")

	// Balance errors
	ErrRangeTooLarge = errors.New("date range too large")
)
