package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/dailyledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// TransactionRepository defines data access for transactions.
// Implementations return copies; callers may keep what they receive.
type TransactionRepository interface {
	List(ctx context.Context) ([]*domain.Transaction, error)
	ListByDateRange(ctx context.Context, r domain.DateRange) ([]*domain.Transaction, error)
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	Create(ctx context.Context, tx *domain.Transaction) error
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives business events worth counting.
type MetricsRecorder interface {
	TransactionOperation(operation string)
	BalancesComputed(days int, cacheHit bool)
}

type noopMetrics struct{}

func (noopMetrics) TransactionOperation(string) {}
func (noopMetrics) BalancesComputed(int, bool) {}
