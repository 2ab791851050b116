package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/dailyledger/internal/domain"
)

func newTestRepository(t *testing.T) *TransactionRepository {
	t.Helper()
	repo, err := NewTransactionRepository(filepath.Join(t.TempDir(), "data", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newTx(id, date string, typ domain.TransactionType, amount string) *domain.Transaction {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Transaction{
		ID:        id,
		Type:      typ,
		Date:      domain.MustParseDay(date),
		Concept:   "concept " + id,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTransactionRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	tx := newTx("01A", "2024-02-29", domain.TransactionTypeExpense, "12.34")
	require.NoError(t, repo.Create(ctx, tx))

	got, err := repo.GetByID(ctx, "01A")
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, domain.TransactionTypeExpense, got.Type)
	assert.Equal(t, "2024-02-29", got.Date.String())
	assert.Equal(t, "concept 01A", got.Concept)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("12.34")), "got %s", got.Amount)
	assert.True(t, got.CreatedAt.Equal(tx.CreatedAt))

	assert.ErrorIs(t, repo.Create(ctx, tx), domain.ErrDuplicateTransaction)
}

func TestTransactionRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.ErrorIs(t, repo.Update(ctx, newTx("missing", "2024-01-01", domain.TransactionTypeIncome, "1")), domain.ErrTransactionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrTransactionNotFound)
}

func TestTransactionRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	tx := newTx("01A", "2024-01-05", domain.TransactionTypeIncome, "100")
	require.NoError(t, repo.Create(ctx, tx))

	tx.Type = domain.TransactionTypeExpense
	tx.Date = domain.MustParseDay("2024-01-06")
	tx.Amount = decimal.RequireFromString("0.01")
	require.NoError(t, repo.Update(ctx, tx))

	got, err := repo.GetByID(ctx, "01A")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeExpense, got.Type)
	assert.Equal(t, "2024-01-06", got.Date.String())
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("0.01")))

	require.NoError(t, repo.Delete(ctx, "01A"))
	_, err = repo.GetByID(ctx, "01A")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionRepository_ListOrderingAndRange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, tx := range []*domain.Transaction{
		newTx("c", "2024-01-31", domain.TransactionTypeIncome, "1"),
		newTx("b", "2024-01-01", domain.TransactionTypeIncome, "1"),
		newTx("a", "2024-01-01", domain.TransactionTypeExpense, "1"),
		newTx("d", "2024-02-01", domain.TransactionTypeIncome, "1"),
	} {
		require.NoError(t, repo.Create(ctx, tx))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(all))

	january := domain.NewDateRange(domain.MustParseDay("2024-01-01"), domain.MustParseDay("2024-01-31"))
	inRange, err := repo.ListByDateRange(ctx, january)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(inRange))
}

func TestTransactionRepository_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	repo, err := NewTransactionRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, newTx("01A", "2024-01-05", domain.TransactionTypeIncome, "5")))
	require.NoError(t, repo.Close())

	reopened, err := NewTransactionRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.NoError(t, reopened.Ping(ctx))
}

func ids(txs []*domain.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func TestTransactionRepository_CorruptTimestamp(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Create(ctx, newTx("a", "2024-01-05", domain.TransactionTypeIncome, "1")))
	_, err := repo.db.ExecContext(ctx, `UPDATE transactions SET updated_at = 'yesterday' WHERE id = 'a'`)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, "a")
	assert.ErrorContains(t, err, "updated_at")

	_, err = repo.List(ctx)
	assert.Error(t, err)
}
