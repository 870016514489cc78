// Package bsdate provides day-granularity dates in the Bikram Sambat
// calendar, where the number of days in a month varies per year. All ledger
// date parsing, comparison and arithmetic goes through this package so that
// business rules never do raw date math.
package bsdate

import (
	"encoding/json"
	"fmt"
)

// Format is the wire format for dates, e.g. "2077-01-15".
const Format = "YYYY-MM-DD"

// Date represents a Bikram Sambat calendar date. The zero value is not a
// valid date; IsZero reports it.
type Date struct {
	year  int
	month int
	day   int
}

// New returns the date for the given year, month and day, or an error when
// the combination does not exist in the calendar.
func New(year, month, day int) (Date, error) {
	days, err := DaysInMonth(year, month)
	if err != nil {
		return Date{}, err
	}
	if day < 1 || day > days {
		return Date{}, fmt.Errorf("day %d out of range for %04d-%02d (1..%d)", day, year, month, days)
	}
	return Date{year: year, month: month, day: day}, nil
}

// Parse parses a date in "YYYY-MM-DD" form and validates it against the
// calendar table.
func Parse(s string) (Date, error) {
	var year, month, day int
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("invalid date %q, want format %s", s, Format)
	}
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &year, &month, &day); err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %s", s, Format)
	}
	d, err := New(year, month, day)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) Year() int  { return d.year }
func (d Date) Month() int { return d.month }
func (d Date) Day() int   { return d.day }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// String formats the date in its standard "YYYY-MM-DD" form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Compare returns -1 if d is before x, 0 if equal, +1 if after.
func (d Date) Compare(x Date) int {
	switch {
	case d.year != x.year:
		return sign(d.year - x.year)
	case d.month != x.month:
		return sign(d.month - x.month)
	default:
		return sign(d.day - x.day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool { return d == x }

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date { return Date{year: d.year, month: d.month, day: 1} }

// MonthEnd returns the last day of d's month.
func (d Date) MonthEnd() Date {
	days, _ := DaysInMonth(d.year, d.month)
	return Date{year: d.year, month: d.month, day: days}
}

// IsMonthEnd reports whether d is the last day of its month.
func (d Date) IsMonthEnd() bool { return d == d.MonthEnd() }

// SameMonth reports whether d and x fall in the same year and month.
func (d Date) SameMonth(x Date) bool {
	return d.year == x.year && d.month == x.month
}

// AddDays returns the date n days after d (before, for negative n). It fails
// when the result leaves the supported year range.
func (d Date) AddDays(n int) (Date, error) {
	num, err := d.dayNumber()
	if err != nil {
		return Date{}, err
	}
	return dateFromDayNumber(num + n)
}

// DaysUntil returns the signed number of days from d to x: positive when x
// is after d, zero when equal.
func (d Date) DaysUntil(x Date) (int, error) {
	a, err := d.dayNumber()
	if err != nil {
		return 0, err
	}
	b, err := x.dayNumber()
	if err != nil {
		return 0, err
	}
	return b - a, nil
}

// dayNumber counts days since the first day of the supported range.
func (d Date) dayNumber() (int, error) {
	if _, err := DaysInMonth(d.year, d.month); err != nil {
		return 0, err
	}
	n := 0
	for y := MinYear; y < d.year; y++ {
		n += daysInYear(y)
	}
	months := calendar[d.year]
	for m := 1; m < d.month; m++ {
		n += months[m-1]
	}
	return n + d.day - 1, nil
}

func dateFromDayNumber(n int) (Date, error) {
	if n < 0 {
		return Date{}, fmt.Errorf("date before supported year %d", MinYear)
	}
	for y := MinYear; y <= MaxYear; y++ {
		if yd := daysInYear(y); n >= yd {
			n -= yd
			continue
		}
		months := calendar[y]
		for m := 1; m <= 12; m++ {
			if n < months[m-1] {
				return Date{year: y, month: m, day: n + 1}, nil
			}
			n -= months[m-1]
		}
	}
	return Date{}, fmt.Errorf("date after supported year %d", MaxYear)
}

func daysInYear(year int) int {
	total := 0
	for _, days := range calendar[year] {
		total += days
	}
	return total
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes and validates a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
