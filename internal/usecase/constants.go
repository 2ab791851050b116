package usecase

import "time"

const (
	// DefaultBalanceCacheTTL is how long computed balances stay cached.
	DefaultBalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// Transaction operations reported to MetricsRecorder.
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)
