package calendar

import (
	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/no"
)

// Workdays is a business-day calendar: Monday to Friday minus holidays.
type Workdays struct {
	bc *cal.BusinessCalendar
}

// NorwegianWorkdays returns a calendar with the Norwegian public holidays
// (Easter, Ascension and Whitsun, May 1, May 17, Christmas, New Year).
func NorwegianWorkdays() *Workdays {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(no.Holidays...)
	return &Workdays{bc: bc}
}

// IsWorkday reports whether d is a business day.
func (w *Workdays) IsWorkday(d Date) bool {
	return w.bc.IsWorkday(d.Time())
}

// Count returns the number of business days in win, both ends included.
func (w *Workdays) Count(win Window) int {
	n := 0
	for d := win.Start; !d.After(win.End); d = d.AddDays(1) {
		if w.IsWorkday(d) {
			n++
		}
	}
	return n
}
