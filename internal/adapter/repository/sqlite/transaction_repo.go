package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/dailyledger/internal/domain"

	_ "modernc.org/sqlite"
)

const (
	selectColumns = `SELECT id, type, date, concept, amount_cents, created_at, updated_at FROM transactions`
	timeLayout    = time.RFC3339Nano
)

// TransactionRepository implements usecase.TransactionRepository on SQLite.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository opens (creating if needed) the database at dbPath
// and applies migrations.
func NewTransactionRepository(dbPath string) (*TransactionRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite transaction store ready")

	return &TransactionRepository{db: db}, nil
}

// Close closes the underlying database.
func (r *TransactionRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks database connectivity.
func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List returns every transaction ordered by date, then ID.
func (r *TransactionRepository) List(ctx context.Context) ([]*domain.Transaction, error) {
	return r.query(ctx, selectColumns+` ORDER BY date, id`)
}

// ListByDateRange returns the transactions dated within rng.
func (r *TransactionRepository) ListByDateRange(ctx context.Context, rng domain.DateRange) ([]*domain.Transaction, error) {
	return r.query(ctx, selectColumns+` WHERE date >= ? AND date <= ? ORDER BY date, id`,
		rng.Start.String(), rng.End.String())
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return tx, nil
}

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, type, date, concept, amount_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		string(tx.Type),
		tx.Date.String(),
		tx.Concept,
		toCents(tx.Amount),
		tx.CreatedAt.UTC().Format(timeLayout),
		tx.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTransaction, tx.ID)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of a stored transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET type = ?, date = ?, concept = ?, amount_cents = ?, updated_at = ? WHERE id = ?`,
		string(tx.Type),
		tx.Date.String(),
		tx.Concept,
		toCents(tx.Amount),
		tx.UpdatedAt.UTC().Format(timeLayout),
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	return requireAffected(res)
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	return requireAffected(res)
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return txs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var (
		tx                   domain.Transaction
		typ, date            string
		cents                int64
		createdAt, updatedAt string
	)

	if err := s.Scan(&tx.ID, &typ, &date, &tx.Concept, &cents, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}

	tx.Type = domain.TransactionType(typ)
	tx.Date = day
	tx.Amount = decimal.New(cents, -domain.AmountPlaces)
	if tx.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("transaction %s: created_at: %w", tx.ID, err)
	}
	if tx.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("transaction %s: updated_at: %w", tx.ID, err)
	}

	return &tx, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(domain.AmountPlaces).IntPart()
}
