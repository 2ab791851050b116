package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iho/dailyledger/internal/domain"
)

// TransactionRepository is an in-process usecase.TransactionRepository.
type TransactionRepository struct {
	mu  sync.RWMutex
	txs map[string]*domain.Transaction
}

// NewTransactionRepository creates an empty TransactionRepository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{txs: make(map[string]*domain.Transaction)}
}

// List returns copies of all transactions ordered by date, then ID.
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		out = append(out, tx.Clone())
	}
	sortTransactions(out)

	return out, nil
}

// ListByDateRange returns copies of the transactions dated within rng.
func (r *TransactionRepository) ListByDateRange(ctx context.Context, rng domain.DateRange) ([]*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Transaction, 0)
	for _, tx := range r.txs {
		if rng.Contains(tx.Date) {
			out = append(out, tx.Clone())
		}
	}
	sortTransactions(out)

	return out, nil
}

// GetByID returns a copy of the transaction with the given ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return tx.Clone(), nil
}

// Create stores a copy of tx.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.txs[tx.ID]; exists {
		return domain.ErrDuplicateTransaction
	}
	r.txs[tx.ID] = tx.Clone()

	return nil
}

// Update replaces the stored transaction with a copy of tx.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[tx.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	r.txs[tx.ID] = tx.Clone()

	return nil
}

// Delete removes the transaction with the given ID.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.txs, id)

	return nil
}

// Ping reports the store as always reachable.
func (r *TransactionRepository) Ping(ctx context.Context) error {
	return nil
}

func sortTransactions(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date.Before(txs[j].Date)
		}
		return txs[i].ID < txs[j].ID
	})
}
