package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/dailyledger/internal/domain"
)

// TransactionUseCase handles transaction business logic.
type TransactionUseCase struct {
	txRepo  TransactionRepository
	idGen   IDGenerator
	metrics MetricsRecorder
	now     func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(txRepo TransactionRepository, idGen IDGenerator) *TransactionUseCase {
	return &TransactionUseCase{
		txRepo:  txRepo,
		idGen:   idGen,
		metrics: noopMetrics{},
		now:     time.Now,
	}
}

// WithMetrics sets the recorder for create/update/delete counts.
func (uc *TransactionUseCase) WithMetrics(m MetricsRecorder) *TransactionUseCase {
	if m != nil {
		uc.metrics = m
	}
	return uc
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	Type    domain.TransactionType
	Date    domain.Day
	Concept string
	Amount  decimal.Decimal
}

// CreateTransaction validates and stores a new transaction.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	now := uc.now().UTC()

	tx := &domain.Transaction{
		Type:      input.Type,
		Date:      input.Date,
		Concept:   strings.TrimSpace(input.Concept),
		Amount:    input.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := domain.ValidateTransaction(tx); err != nil {
		return nil, err
	}

	tx.ID = uc.idGen.Generate()

	if err := uc.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	uc.metrics.TransactionOperation(OperationCreate)

	return tx, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// UpdateTransactionInput represents input for replacing a transaction.
type UpdateTransactionInput struct {
	ID      string
	Type    domain.TransactionType
	Date    domain.Day
	Concept string
	Amount  decimal.Decimal
}

// UpdateTransaction replaces the mutable fields of an existing transaction.
// The ID and creation time are kept.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	existing, err := uc.txRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	updated := existing.Clone()
	updated.Type = input.Type
	updated.Date = input.Date
	updated.Concept = strings.TrimSpace(input.Concept)
	updated.Amount = input.Amount
	updated.UpdatedAt = uc.now().UTC()

	if err := domain.ValidateTransaction(updated); err != nil {
		return nil, err
	}

	if err := uc.txRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update transaction %s: %w", input.ID, err)
	}

	uc.metrics.TransactionOperation(OperationUpdate)

	return updated, nil
}

// DeleteTransaction removes a transaction.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	if err := uc.txRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	uc.metrics.TransactionOperation(OperationDelete)

	return nil
}

// ListTransactionsInput represents input for listing transactions.
// Either bound may be nil; with both nil every transaction is returned.
type ListTransactionsInput struct {
	From *domain.Day
	To   *domain.Day
}

var (
	minListDay = domain.NewDay(1, 1, 1)
	maxListDay = domain.NewDay(9999, 12, 31)
)

// ListTransactions lists transactions ordered by date.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if input.From == nil && input.To == nil {
		return uc.txRepo.List(ctx)
	}

	r := domain.NewDateRange(minListDay, maxListDay)
	if input.From != nil {
		r.Start = *input.From
	}
	if input.To != nil {
		r.End = *input.To
	}

	if r.IsInverted() {
		return []*domain.Transaction{}, nil
	}

	return uc.txRepo.ListByDateRange(ctx, r)
}
