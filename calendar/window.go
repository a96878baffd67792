package calendar

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidWindow is returned when a window's end falls before its start.
var ErrInvalidWindow = errors.New("invalid window: end before start")

// =============================================================================
// WINDOW - Inclusive date range
// =============================================================================

// Window is an inclusive [Start, End] range of calendar days.
// Start <= End always holds for windows built by NewWindow.
type Window struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// NewWindow returns the window [start, end] or ErrInvalidWindow.
func NewWindow(start, end Date) (Window, error) {
	if end.Before(start) {
		return Window{}, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, start, end)
	}
	return Window{Start: start, End: end}, nil
}

// Contains returns true if d is within [Start, End].
func (w Window) Contains(d Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

// Overlaps returns true if the two windows share at least one day.
func (w Window) Overlaps(other Window) bool {
	return w.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(w.End)
}

// Days returns the inclusive number of days in the window.
func (w Window) Days() int {
	return w.Start.DaysUntil(w.End) + 1
}

// Next returns the window of equal length starting the day after End.
func (w Window) Next() Window {
	start := w.End.AddDays(1)
	return Window{Start: start, End: start.AddDays(w.Days() - 1)}
}

func (w Window) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// YearFraction returns the window's length in years, each day weighted by
// 1/365 or 1/366 depending on the year it falls in. Statistics code uses it
// as exposure time when annualising counts. The result is exact to 12
// decimal places.
func (w Window) YearFraction() decimal.Decimal {
	total := decimal.Zero
	for year := w.Start.Year(); year <= w.End.Year(); year++ {
		from, to := StartOfYear(year), EndOfYear(year)
		if w.Start.After(from) {
			from = w.Start
		}
		if w.End.Before(to) {
			to = w.End
		}
		days := decimal.NewFromInt(int64(from.DaysUntil(to) + 1))
		total = total.Add(days.DivRound(decimal.NewFromInt(int64(DaysInYear(year))), 12))
	}
	return total
}
