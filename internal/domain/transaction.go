package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType determines the sign of a transaction's contribution.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ParseTransactionType parses a type name, ignoring case and surrounding space.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// IsValid reports whether t is a known type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a dated income or expense.
// Amount is always a positive magnitude; the sign comes from Type.
type Transaction struct {
	ID        string
	Type      TransactionType
	Date      Day
	Concept   string
	Amount    decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Delta returns the signed contribution of the transaction to a balance.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Clone returns a copy that shares no state with t.
func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}
