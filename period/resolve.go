package period

import (
	"time"

	"github.com/warp/period-engine/calendar"
)

// =============================================================================
// WINDOW RESOLVER - (year, type, number) -> inclusive calendar window
// =============================================================================

// Resolve returns the inclusive calendar window covered by period `number`
// of type t in year. The number is validated against the type's range and,
// for weeks, against the year's ISO week count. Year ignores number.
func Resolve(year int, t Type, number int) (calendar.Window, error) {
	n, err := t.ValidateNumber(number)
	if err != nil {
		return calendar.Window{}, err
	}

	switch t {
	case Year:
		return calendar.Window{Start: calendar.StartOfYear(year), End: calendar.EndOfYear(year)}, nil

	case HalfYear:
		return monthSpan(year, 6*(n-1)+1, 6), nil

	case Quarter:
		return monthSpan(year, 3*(n-1)+1, 3), nil

	case Month:
		return monthSpan(year, n, 1), nil

	case Week:
		if weeks := calendar.ISOWeeksInYear(year); n > weeks {
			return calendar.Window{}, &InvalidISOWeekError{Year: year, Week: n, WeeksInYear: weeks}
		}
		start := calendar.ISOWeekStart(year, n)
		return calendar.Window{Start: start, End: start.AddDays(6)}, nil
	}

	return calendar.Window{}, &UnrecognizedPeriodTypeError{Input: t.String()}
}

// monthSpan covers `months` whole months starting at firstMonth.
func monthSpan(year, firstMonth, months int) calendar.Window {
	start := calendar.NewDate(year, time.Month(firstMonth), 1)
	return calendar.Window{Start: start, End: start.AddMonths(months - 1).EndOfMonth()}
}
