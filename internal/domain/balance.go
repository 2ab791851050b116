package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxRangeDays caps how many days a single balance computation may cover.
const MaxRangeDays = 100 * 366

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start Day
	End   Day
}

// NewDateRange creates a DateRange.
func NewDateRange(start, end Day) DateRange {
	return DateRange{Start: start, End: end}
}

// IsInverted reports whether Start is after End.
func (r DateRange) IsInverted() bool {
	return r.Start.After(r.End)
}

// Days returns the number of days in the range, 0 when inverted.
func (r DateRange) Days() int {
	if r.IsInverted() {
		return 0
	}
	return int(r.End-r.Start) + 1
}

// Contains reports whether d lies within the range.
func (r DateRange) Contains(d Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// CheckSize returns ErrRangeTooLarge when r covers more than MaxRangeDays.
func (r DateRange) CheckSize() error {
	if n := r.Days(); n > MaxRangeDays {
		return fmt.Errorf("%w: %s spans %d days, limit is %d", ErrRangeTooLarge, r, n, MaxRangeDays)
	}
	return nil
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// DailyBalance is the balance at the end of a calendar day.
type DailyBalance struct {
	Date    Day
	Balance decimal.Decimal
}

// DailyBalances holds one entry per day of a range, ascending and without gaps.
type DailyBalances []DailyBalance

// Get returns the balance for d.
func (b DailyBalances) Get(d Day) (decimal.Decimal, bool) {
	if len(b) == 0 {
		return decimal.Zero, false
	}
	i := int(d - b[0].Date)
	if i < 0 || i >= len(b) {
		return decimal.Zero, false
	}
	return b[i].Balance, true
}

// DailyDeltas sums the signed amounts of txs per calendar day.
func DailyDeltas(txs []*Transaction) map[Day]decimal.Decimal {
	deltas := make(map[Day]decimal.Decimal)
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		deltas[tx.Date] = deltas[tx.Date].Add(tx.Delta())
	}
	return deltas
}

// ComputeDailyBalances returns the cumulative balance for every day of r.
//
// startingBalance is the balance of the day before r.Start. Transactions
// dated outside r contribute nothing. An inverted range yields an empty
// result. txs is not modified.
func ComputeDailyBalances(txs []*Transaction, r DateRange, startingBalance decimal.Decimal) DailyBalances {
	days := r.Days()
	out := make(DailyBalances, 0, days)
	if days == 0 {
		return out
	}

	deltas := DailyDeltas(txs)
	running := startingBalance
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		if delta, ok := deltas[d]; ok {
			running = running.Add(delta)
		}
		out = append(out, DailyBalance{Date: d, Balance: running})
	}

	return out
}

// OpeningBalance returns startingBalance plus the deltas of every
// transaction dated before start.
func OpeningBalance(txs []*Transaction, start Day, startingBalance decimal.Decimal) decimal.Decimal {
	balance := startingBalance
	for _, tx := range txs {
		if tx != nil && tx.Date.Before(start) {
			balance = balance.Add(tx.Delta())
		}
	}
	return balance
}

// DefaultRange is the span shown when the caller gives none: one year either
// side of the transactions, or of today when there are none. Bounds are
// clamped to [MinDay, MaxDay].
func DefaultRange(txs []*Transaction, today Day) DateRange {
	var earliest, latest Day
	found := false
	for _, tx := range txs {
		if tx == nil {
			continue
		}
		if !found || tx.Date.Before(earliest) {
			earliest = tx.Date
		}
		if !found || tx.Date.After(latest) {
			latest = tx.Date
		}
		found = true
	}

	if !found {
		earliest, latest = today, today
	}

	return DateRange{Start: earliest.AddYears(-1).Clamp(), End: latest.AddYears(1).Clamp()}
}
