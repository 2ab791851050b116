package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the wire format of a calendar day.
const DayLayout = "2006-01-02"

const (
	secondsPerDay = 24 * 60 * 60
	// Day value of 1970-01-01
	unixEpochDays = 719163
)

// Day is a calendar day with no time-of-day or timezone. 0001-01-01 is Day 1;
// the zero Day is unset and never a real date.
type Day int32

// Bounds of the four-digit years the wire format can carry.
var (
	MinDay = NewDay(1, time.January, 1)
	MaxDay = NewDay(9999, time.December, 31)
)

// NewDay returns the Day for the given civil date. Out-of-range values are
// normalized the way time.Date normalizes them.
func NewDay(year int, month time.Month, day int) Day {
	unix := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
	return Day(unix/secondsPerDay + unixEpochDays)
}

// DayFromTime returns the calendar day t falls on in its own location.
// Time-of-day and zone offset are discarded.
func DayFromTime(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses a YYYY-MM-DD string. RFC 3339 timestamps are accepted too
// and reduced to the date they were written with.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}

	layout := time.RFC3339
	if len(s) == len(DayLayout) {
		layout = DayLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}

	d := DayFromTime(t)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %q is before %s", ErrInvalidDate, s, MinDay)
	}
	return d, nil
}

// MustParseDay is like ParseDay but panics on error.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Unix((int64(d)-unixEpochDays)*secondsPerDay, 0).UTC()
}

// Date returns the civil date components.
func (d Day) Date() (year int, month time.Month, day int) {
	return d.Time().Date()
}

// IsZero reports whether d is unset.
func (d Day) IsZero() bool {
	return d == 0
}

// Valid reports whether d lies within [MinDay, MaxDay].
func (d Day) Valid() bool {
	return d >= MinDay && d <= MaxDay
}

// Clamp limits d to [MinDay, MaxDay].
func (d Day) Clamp() Day {
	switch {
	case d < MinDay:
		return MinDay
	case d > MaxDay:
		return MaxDay
	}
	return d
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day(int(d) + n)
}

// AddYears returns the same month and day n years later. February 29
// becomes February 28 when the target year is not a leap year.
func (d Day) AddYears(n int) Day {
	y, m, dd := d.Date()
	target := y + n
	if m == time.February && dd == 29 && !isLeapYear(target) {
		dd = 28
	}
	return NewDay(target, m, dd)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d < other
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d > other
}

func (d Day) String() string {
	return d.Time().Format(DayLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
