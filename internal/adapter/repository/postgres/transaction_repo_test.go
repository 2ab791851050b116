package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/dailyledger/internal/domain"
)

func newTestRepository(t *testing.T) (*TransactionRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool := newMockPool(t)
	return NewTransactionRepository(mockPool).WithRetrier(fastRetrier(1)), mockPool
}

func sampleTransaction() *domain.Transaction {
	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	return &domain.Transaction{
		ID:        "01HQ0000000000000000000000",
		Type:      domain.TransactionTypeExpense,
		Date:      domain.MustParseDay("2024-01-05"),
		Concept:   "Groceries",
		Amount:    decimal.RequireFromString("45.10"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestTransactionRepositoryCreate(t *testing.T) {
	repo, mockPool := newTestRepository(t)
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), sampleTransaction()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryCreateDuplicate(t *testing.T) {
	repo, mockPool := newTestRepository(t)
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := repo.Create(context.Background(), sampleTransaction())
	if !errors.Is(err, domain.ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}
}

func TestTransactionRepositoryCreateRetriesDeadlock(t *testing.T) {
	repo, mockPool := newTestRepository(t)
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs(anyArgs(7)...).
		WillReturnError(&pgconn.PgError{Code: pgErrDeadlock})
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), sampleTransaction()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryGetByIDNotFound(t *testing.T) {
	repo, mockPool := newTestRepository(t)
	mockPool.ExpectQuery("FROM transactions WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionRepositoryUpdate(t *testing.T) {
	repo, mockPool := newTestRepository(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE transactions").
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	if err := repo.Update(context.Background(), sampleTransaction()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryUpdateMissingRollsBack(t *testing.T) {
	repo, mockPool := newTestRepository(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("UPDATE transactions").
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockPool.ExpectRollback()

	err := repo.Update(context.Background(), sampleTransaction())
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryDelete(t *testing.T) {
	repo, mockPool := newTestRepository(t)
	mockPool.ExpectExec("DELETE FROM transactions").
		WithArgs("tx-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectExec("DELETE FROM transactions").
		WithArgs("tx-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), "tx-2"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"45.10", "0.01", "9999999999.99", "100"} {
		d := decimal.RequireFromString(s)
		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Fatalf("numeric round trip of %s gave %s", s, got)
		}
	}
}

func TestPgDateConversion(t *testing.T) {
	day := domain.MustParseDay("2024-02-29")
	if got := pgDateToDay(dayToPgDate(day)); got != day {
		t.Fatalf("expected %s, got %s", day, got)
	}
}
