package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/dailyledger/internal/domain"
)

// BalanceUseCase computes daily balances over the stored transactions.
type BalanceUseCase struct {
	txRepo   TransactionRepository
	cache    Cache
	cacheTTL time.Duration
	metrics  MetricsRecorder
	now      func() time.Time
}

// BalanceOption configures a BalanceUseCase.
type BalanceOption func(*BalanceUseCase)

// WithBalanceCache memoizes results in cache for ttl.
func WithBalanceCache(cache Cache, ttl time.Duration) BalanceOption {
	return func(uc *BalanceUseCase) {
		uc.cache = cache
		if ttl > 0 {
			uc.cacheTTL = ttl
		}
	}
}

// WithBalanceMetrics sets the metrics recorder.
func WithBalanceMetrics(m MetricsRecorder) BalanceOption {
	return func(uc *BalanceUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

// WithClock overrides the clock used to derive the default range.
func WithClock(now func() time.Time) BalanceOption {
	return func(uc *BalanceUseCase) {
		uc.now = now
	}
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(txRepo TransactionRepository, opts ...BalanceOption) *BalanceUseCase {
	uc := &BalanceUseCase{
		txRepo:   txRepo,
		cacheTTL: DefaultBalanceCacheTTL,
		metrics:  noopMetrics{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// DailyBalancesInput represents input for computing daily balances.
// A missing bound is derived from the transactions with DefaultRange.
type DailyBalancesInput struct {
	Start           *domain.Day
	End             *domain.Day
	StartingBalance decimal.Decimal
	// IncludeHistory folds transactions dated before Start into the
	// starting balance.
	IncludeHistory bool
}

// DailyBalancesResult is the outcome of a balance computation.
type DailyBalancesResult struct {
	Range           domain.DateRange
	StartingBalance decimal.Decimal
	Balances        domain.DailyBalances
}

// DailyBalances computes the running balance for every day of the requested range.
func (uc *BalanceUseCase) DailyBalances(ctx context.Context, input DailyBalancesInput) (*DailyBalancesResult, error) {
	txs, err := uc.txRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	r := uc.resolveRange(txs, input)
	if err := r.CheckSize(); err != nil {
		return nil, err
	}

	starting := input.StartingBalance
	if input.IncludeHistory {
		starting = domain.OpeningBalance(txs, r.Start, starting)
	}

	var key string
	if uc.cache != nil {
		key = balanceCacheKey(txs, r, input.StartingBalance, input.IncludeHistory)
		if result, ok := uc.readCache(ctx, key); ok {
			uc.metrics.BalancesComputed(len(result.Balances), true)
			return result, nil
		}
	}

	result := &DailyBalancesResult{
		Range:           r,
		StartingBalance: starting,
		Balances:        domain.ComputeDailyBalances(txs, r, starting),
	}

	if uc.cache != nil {
		uc.writeCache(ctx, key, result)
	}

	uc.metrics.BalancesComputed(len(result.Balances), false)

	return result, nil
}

func (uc *BalanceUseCase) resolveRange(txs []*domain.Transaction, input DailyBalancesInput) domain.DateRange {
	if input.Start != nil && input.End != nil {
		return domain.NewDateRange(*input.Start, *input.End)
	}

	r := domain.DefaultRange(txs, domain.DayFromTime(uc.now().UTC()))
	if input.Start != nil {
		r.Start = *input.Start
	}
	if input.End != nil {
		r.End = *input.End
	}
	return r
}

type cachedBalances struct {
	Start    domain.Day `json:"start"`
	End      domain.Day `json:"end"`
	Starting string     `json:"starting"`
	Balances []string   `json:"balances"`
}

func (uc *BalanceUseCase) readCache(ctx context.Context, key string) (*DailyBalancesResult, bool) {
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("balance cache read failed")
		}
		return nil, false
	}

	var cached cachedBalances
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding malformed cached balances")
		return nil, false
	}

	r := domain.NewDateRange(cached.Start, cached.End)
	if len(cached.Balances) != r.Days() {
		return nil, false
	}

	starting, err := decimal.NewFromString(cached.Starting)
	if err != nil {
		return nil, false
	}

	balances := make(domain.DailyBalances, len(cached.Balances))
	for i, s := range cached.Balances {
		b, err := decimal.NewFromString(s)
		if err != nil {
			return nil, false
		}
		balances[i] = domain.DailyBalance{Date: r.Start.AddDays(i), Balance: b}
	}

	return &DailyBalancesResult{Range: r, StartingBalance: starting, Balances: balances}, true
}

func (uc *BalanceUseCase) writeCache(ctx context.Context, key string, result *DailyBalancesResult) {
	cached := cachedBalances{
		Start:    result.Range.Start,
		End:      result.Range.End,
		Starting: result.StartingBalance.String(),
		Balances: make([]string, len(result.Balances)),
	}
	for i, b := range result.Balances {
		cached.Balances[i] = b.Balance.String()
	}

	data, err := json.Marshal(cached)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode balances for cache")
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("balance cache write failed")
	}
}

// balanceCacheKey fingerprints everything the result depends on.
func balanceCacheKey(txs []*domain.Transaction, r domain.DateRange, starting decimal.Decimal, includeHistory bool) string {
	h := xxhash.New()
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		_, _ = h.WriteString(tx.ID)
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(string(tx.Type))
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(tx.Date.String())
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(tx.Amount.String())
		_, _ = h.WriteString("\n")
	}
	_, _ = h.WriteString(r.String())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(starting.String())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(strconv.FormatBool(includeHistory))

	return fmt.Sprintf("balances:%016x", h.Sum64())
}
