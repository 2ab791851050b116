package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/dailyledger/internal/domain"
	"github.com/iho/dailyledger/internal/infrastructure/postgres/generated"
)

const pgErrUniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	generated.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// TransactionRepository implements usecase.TransactionRepository on PostgreSQL.
type TransactionRepository struct {
	db        DB
	queries   *generated.Queries
	txManager *TxManager
	retrier   *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db DB) *TransactionRepository {
	return &TransactionRepository{
		db:        db,
		queries:   generated.New(db),
		txManager: NewTxManager(db),
		retrier:   NewRetrier(),
	}
}

// WithRetrier overrides the retrier used for writes.
func (r *TransactionRepository) WithRetrier(retrier *Retrier) *TransactionRepository {
	r.retrier = retrier
	return r
}

// List returns every transaction ordered by date, then ID.
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// ListByDateRange returns the transactions dated within rng.
func (r *TransactionRepository) ListByDateRange(ctx context.Context, rng domain.DateRange) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByDateRange(ctx, generated.ListTransactionsByDateRangeParams{
		FromDate: dayToPgDate(rng.Start),
		ToDate:   dayToPgDate(rng.End),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	err := r.retrier.Retry(ctx, func() error {
		return r.queries.CreateTransaction(ctx, generated.CreateTransactionParams{
			ID:        tx.ID,
			Type:      string(tx.Type),
			Date:      dayToPgDate(tx.Date),
			Concept:   tx.Concept,
			Amount:    decimalToNumeric(tx.Amount),
			CreatedAt: timeToPgTimestamptz(tx.CreatedAt),
			UpdatedAt: timeToPgTimestamptz(tx.UpdatedAt),
		})
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateTransaction, tx.ID)
	}

	return err
}

// Update replaces the mutable fields of a stored transaction inside a
// database transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	return r.retrier.Retry(ctx, func() error {
		return r.txManager.WithTx(ctx, func(pgxTx pgx.Tx) error {
			affected, err := r.queries.WithTx(pgxTx).UpdateTransaction(ctx, generated.UpdateTransactionParams{
				ID:        tx.ID,
				Type:      string(tx.Type),
				Date:      dayToPgDate(tx.Date),
				Concept:   tx.Concept,
				Amount:    decimalToNumeric(tx.Amount),
				UpdatedAt: timeToPgTimestamptz(tx.UpdatedAt),
			})
			if err != nil {
				return err
			}
			if affected == 0 {
				return domain.ErrTransactionNotFound
			}
			return nil
		})
	})
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return r.retrier.Retry(ctx, func() error {
		affected, err := r.queries.DeleteTransaction(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrTransactionNotFound
		}
		return nil
	})
}

// Ping checks database connectivity.
func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
