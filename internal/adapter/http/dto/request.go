package dto

import (
	"fmt"

	"github.com/iho/dailyledger/internal/domain"
	"github.com/iho/dailyledger/internal/usecase"
)

// TransactionRequest is the body of create and replace requests.
type TransactionRequest struct {
	Type    string  `json:"type"`
	Date    string  `json:"date"`
	Concept string  `json:"concept"`
	Amount  *Number `json:"amount"`
}

// ToCreateInput converts to use case input.
func (r *TransactionRequest) ToCreateInput() (usecase.CreateTransactionInput, error) {
	typ, day, err := r.parse()
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}

	return usecase.CreateTransactionInput{
		Type:    typ,
		Date:    day,
		Concept: r.Concept,
		Amount:  r.Amount.Decimal,
	}, nil
}

// ToUpdateInput converts to use case input for the transaction id.
func (r *TransactionRequest) ToUpdateInput(id string) (usecase.UpdateTransactionInput, error) {
	typ, day, err := r.parse()
	if err != nil {
		return usecase.UpdateTransactionInput{}, err
	}

	return usecase.UpdateTransactionInput{
		ID:      id,
		Type:    typ,
		Date:    day,
		Concept: r.Concept,
		Amount:  r.Amount.Decimal,
	}, nil
}

func (r *TransactionRequest) parse() (domain.TransactionType, domain.Day, error) {
	typ, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		return "", 0, err
	}

	if r.Date == "" {
		return "", 0, fmt.Errorf("%w: date is required", domain.ErrInvalidDate)
	}
	day, err := domain.ParseDay(r.Date)
	if err != nil {
		return "", 0, err
	}

	if r.Amount == nil {
		return "", 0, fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}

	return typ, day, nil
}
