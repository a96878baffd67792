/*
Package calendar provides timezone-naive calendar arithmetic.

PURPOSE:
  Reporting periods are defined on calendar days, never on instants. This
  package owns the only two primitives that deal with irregular calendar
  shapes, so every caller shares one leap-year rule:

    - AddMonths: same day-of-month N months later, clamped to the last
      valid day of the target month (Jan 31 + 1 month = Feb 28/29).
    - ISOWeekStart: Monday of ISO-8601 week N of a year.

KEY CONCEPTS:
  - Date:   a calendar day (year, month, day) with no clock and no zone
  - Window: an inclusive [Start, End] pair of Dates (window.go)

USAGE:
  d := calendar.NewDate(2024, time.January, 31)
  d.AddMonths(1)              // 2024-02-29
  calendar.ISOWeekStart(2024, 1) // 2024-01-01

SEE ALSO:
  - window.go: Window type and year fractions
  - period/resolve.go: period-to-window resolution built on these primitives
*/
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for a Date.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - A calendar day without clock or zone
// =============================================================================

// Date is a calendar day. The zero value is not a valid date; use NewDate.
// Dates are comparable with ==.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the date for year, month and day. Out-of-range values are
// normalised the way time.Date normalises them (Feb 30 becomes Mar 1/2).
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return FromTime(t), nil
}

// Clock returns the current instant. Production code passes time.Now.
type Clock func() time.Time

// Today returns the current calendar day according to clock.
func Today(clock Clock) Date {
	if clock == nil {
		clock = time.Now
	}
	return FromTime(clock())
}

// Properties
func (d Date) Year() int             { return d.year }
func (d Date) Month() time.Month     { return d.month }
func (d Date) Day() int              { return d.day }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// ISOWeek returns the ISO-8601 year and week number containing d.
func (d Date) ISOWeek() (year, week int) { return d.Time().ISOWeek() }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool         { return d.Time().After(other.Time()) }
func (d Date) Equal(other Date) bool         { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// =============================================================================
// ARITHMETIC
// =============================================================================

// AddDays returns d moved by n days (n may be negative).
func (d Date) AddDays(n int) Date { return FromTime(d.Time().AddDate(0, 0, n)) }

// AddMonths returns the same day-of-month n months later, clamped to the last
// day of the target month. Unlike time.AddDate it never spills into the
// following month.
func (d Date) AddMonths(n int) Date {
	// Normalise through day 1 so the target month itself is exact.
	first := time.Date(d.year, d.month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	y, m := first.Year(), first.Month()
	day := d.day
	if last := DaysIn(y, m); day > last {
		day = last
	}
	return Date{year: y, month: m, day: day}
}

// AddYears is AddMonths(12*n); Feb 29 clamps to Feb 28 in non-leap years.
func (d Date) AddYears(n int) Date { return d.AddMonths(12 * n) }

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date { return Date{year: d.year, month: d.month, day: 1} }

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date {
	return Date{year: d.year, month: d.month, day: DaysIn(d.year, d.month)}
}

// DaysUntil returns the number of days from d to other (negative if other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// =============================================================================
// FORMATTING
// =============================================================================

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// CALENDAR UTILITIES
// =============================================================================

// IsLeap reports whether year is a Gregorian leap year: divisible by 4,
// except centuries not divisible by 400.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

func StartOfYear(year int) Date { return Date{year: year, month: time.January, day: 1} }
func EndOfYear(year int) Date   { return Date{year: year, month: time.December, day: 31} }

// LastDayOfMonth returns the last day of the month containing d.
func LastDayOfMonth(d Date) Date { return d.EndOfMonth() }

// LastDayOfNextMonth returns the last day of the month after the one
// containing d, rolling December over into January.
func LastDayOfNextMonth(d Date) Date { return d.StartOfMonth().AddMonths(1).EndOfMonth() }

// =============================================================================
// ISO WEEKS
// =============================================================================

// ISOWeeksInYear returns 52 or 53. Dec 28 always lies in the last ISO week
// of its year.
func ISOWeeksInYear(year int) int {
	_, week := NewDate(year, time.December, 28).ISOWeek()
	return week
}

// ISOWeekStart returns the Monday of ISO week `week` of `year`. Week 1 is the
// week containing Jan 4. The week number is not range-checked; callers
// validate against ISOWeeksInYear.
func ISOWeekStart(year, week int) Date {
	jan4 := NewDate(year, time.January, 4)
	offset := int(jan4.Weekday()+6) % 7 // Monday=0 ... Sunday=6
	return jan4.AddDays(-offset + (week-1)*7)
}
