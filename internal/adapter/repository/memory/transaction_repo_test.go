package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/dailyledger/internal/domain"
)

func newTx(id, date string, typ domain.TransactionType, amount int64) *domain.Transaction {
	return &domain.Transaction{
		ID:      id,
		Type:    typ,
		Date:    domain.MustParseDay(date),
		Concept: "test " + id,
		Amount:  decimal.NewFromInt(amount),
	}
}

func TestTransactionRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	tx := newTx("01A", "2024-01-05", domain.TransactionTypeIncome, 100)
	require.NoError(t, repo.Create(ctx, tx))
	assert.ErrorIs(t, repo.Create(ctx, tx), domain.ErrDuplicateTransaction)

	got, err := repo.GetByID(ctx, "01A")
	require.NoError(t, err)
	assert.Equal(t, "test 01A", got.Concept)

	got.Concept = "changed"
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.GetByID(ctx, "01A")
	require.NoError(t, err)
	assert.Equal(t, "changed", again.Concept)

	require.NoError(t, repo.Delete(ctx, "01A"))
	_, err = repo.GetByID(ctx, "01A")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "01A"), domain.ErrTransactionNotFound)
	assert.ErrorIs(t, repo.Update(ctx, tx), domain.ErrTransactionNotFound)
}

func TestTransactionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	tx := newTx("01A", "2024-01-05", domain.TransactionTypeIncome, 100)
	require.NoError(t, repo.Create(ctx, tx))
	tx.Amount = decimal.NewFromInt(1)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(decimal.NewFromInt(100)))

	list[0].Amount = decimal.NewFromInt(5)
	got, err := repo.GetByID(ctx, "01A")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)), "stored value leaked through a returned snapshot")
}

func TestTransactionRepository_ListOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	for _, tx := range []*domain.Transaction{
		newTx("03", "2024-01-02", domain.TransactionTypeExpense, 1),
		newTx("01", "2024-01-03", domain.TransactionTypeIncome, 1),
		newTx("02", "2024-01-02", domain.TransactionTypeIncome, 1),
	} {
		require.NoError(t, repo.Create(ctx, tx))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)

	ids := make([]string, len(list))
	for i, tx := range list {
		ids[i] = tx.ID
	}
	assert.Equal(t, []string{"02", "03", "01"}, ids)
}

func TestTransactionRepository_ListByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	for _, tx := range []*domain.Transaction{
		newTx("a", "2023-12-31", domain.TransactionTypeIncome, 1),
		newTx("b", "2024-01-01", domain.TransactionTypeIncome, 1),
		newTx("c", "2024-01-31", domain.TransactionTypeIncome, 1),
		newTx("d", "2024-02-01", domain.TransactionTypeIncome, 1),
	} {
		require.NoError(t, repo.Create(ctx, tx))
	}

	january := domain.NewDateRange(domain.MustParseDay("2024-01-01"), domain.MustParseDay("2024-01-31"))
	list, err := repo.ListByDateRange(ctx, january)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
}

func TestTransactionRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewTransactionRepository()
	_, err := repo.List(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.ErrorIs(t, repo.Create(ctx, newTx("x", "2024-01-01", domain.TransactionTypeIncome, 1)), context.Canceled)
}

func TestTransactionRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('A'+i%26)) + string(rune('a'+i/26))
			_ = repo.Create(ctx, newTx(id, "2024-01-01", domain.TransactionTypeIncome, 1))
			_, _ = repo.List(ctx)
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
