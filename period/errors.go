/*
errors.go - Centralized error types for period resolution

PURPOSE:
  All validation failures of the period engine in one place. Every error is
  raised synchronously at construction or resolution time; nothing is ever
  clamped or guessed into a valid value.

ERROR KINDS:
  1. UnrecognizedPeriodType  - input string matches no type or alias
  2. PeriodNumberOutOfRange  - number outside the type's declared range
  3. InvalidISOWeek          - week 53 in a year with 52 ISO weeks
  4. YearOutOfRange          - year outside [1900, current year]
  5. InvalidWaitPeriod       - negative months or days

USAGE:
  Match kinds with errors.Is on the sentinels, or errors.As on the
  structured types for bounds:

    var rangeErr *period.PeriodNumberOutOfRangeError
    if errors.As(err, &rangeErr) {
        fmt.Println(rangeErr.Min, rangeErr.Max)
    }
*/
package period

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrUnrecognizedPeriodType = errors.New("unrecognized period type")
	ErrPeriodNumberOutOfRange = errors.New("period number out of range")
	ErrInvalidISOWeek         = errors.New("invalid ISO week")
	ErrYearOutOfRange         = errors.New("year out of range")
	ErrInvalidWaitPeriod      = errors.New("invalid wait period")
	ErrInvalidLabel           = errors.New("invalid period label")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnrecognizedPeriodTypeError reports the rejected input.
type UnrecognizedPeriodTypeError struct {
	Input string
}

func (e *UnrecognizedPeriodTypeError) Error() string {
	return fmt.Sprintf("unrecognized period type %q: choose one of %s", e.Input, typeChoices())
}

func (e *UnrecognizedPeriodTypeError) Unwrap() error { return ErrUnrecognizedPeriodType }

// PeriodNumberOutOfRangeError carries the allowed bounds for Type.
type PeriodNumberOutOfRangeError struct {
	Type   Type
	Number int
	Min    int
	Max    int
}

func (e *PeriodNumberOutOfRangeError) Error() string {
	return fmt.Sprintf("%s number %d out of range: must be between %d and %d",
		e.Type, e.Number, e.Min, e.Max)
}

func (e *PeriodNumberOutOfRangeError) Unwrap() error { return ErrPeriodNumberOutOfRange }

// InvalidISOWeekError is returned for week 53 in a 52-week year.
type InvalidISOWeekError struct {
	Year        int
	Week        int
	WeeksInYear int
}

func (e *InvalidISOWeekError) Error() string {
	return fmt.Sprintf("ISO week %d does not exist in %d: the year has %d weeks",
		e.Week, e.Year, e.WeeksInYear)
}

func (e *InvalidISOWeekError) Unwrap() error { return ErrInvalidISOWeek }

// YearOutOfRangeError carries the accepted year bounds.
type YearOutOfRangeError struct {
	Year int
	Min  int
	Max  int
}

func (e *YearOutOfRangeError) Error() string {
	return fmt.Sprintf("year %d out of range: must be between %d and %d", e.Year, e.Min, e.Max)
}

func (e *YearOutOfRangeError) Unwrap() error { return ErrYearOutOfRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnrecognizedPeriodType) ||
		errors.Is(err, ErrPeriodNumberOutOfRange) ||
		errors.Is(err, ErrInvalidISOWeek) ||
		errors.Is(err, ErrYearOutOfRange) ||
		errors.Is(err, ErrInvalidWaitPeriod) ||
		errors.Is(err, ErrInvalidLabel)
}
