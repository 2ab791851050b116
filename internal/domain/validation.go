package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision = errors.New("amount has too many decimal places")
)

// Validation constants
const (
	MaxConceptLength = 255
	MaxAmount        = "9999999999.99" // 12 digits, 2 decimal places
	AmountPlaces     = 2
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ValidateTransaction checks a transaction before it is stored.
func ValidateTransaction(tx *Transaction) error {
	if !tx.Type.IsValid() {
		return fmt.Errorf("%w: got %q", ErrInvalidType, tx.Type)
	}

	if tx.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if !tx.Date.Valid() {
		return fmt.Errorf("%w: %s is outside %s..%s", ErrInvalidDate, tx.Date, MinDay, MaxDay)
	}

	if err := ValidateConcept(tx.Concept); err != nil {
		return err
	}

	return ValidateAmount(tx.Amount)
}

// ValidateConcept validates the free-text label.
func ValidateConcept(concept string) error {
	concept = strings.TrimSpace(concept)

	if concept == "" {
		return fmt.Errorf("%w: concept cannot be empty", ErrInvalidConcept)
	}

	if utf8.RuneCountInString(concept) > MaxConceptLength {
		return fmt.Errorf("%w: concept exceeds %d characters", ErrInvalidConcept, MaxConceptLength)
	}

	return nil
}

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Round(AmountPlaces)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrAmountPrecision, AmountPlaces)
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}
