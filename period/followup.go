package period

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/warp/period-engine/calendar"
)

// =============================================================================
// WAIT PERIOD - Data-collection delay ("etterslep")
// =============================================================================

// WaitPeriod is how long data for a period keeps arriving after the period.
type WaitPeriod struct {
	Months int `json:"months" yaml:"months" mapstructure:"months"`
	Days   int `json:"days" yaml:"days" mapstructure:"days"`
}

// DefaultWaitPeriod is one month, zero days.
var DefaultWaitPeriod = WaitPeriod{Months: 1, Days: 0}

// Upper bounds for a wait period: a century either way.
const (
	MaxWaitMonths = 1200
	MaxWaitDays   = 36600
)

// NewWaitPeriod rejects negative components.
func NewWaitPeriod(months, days int) (WaitPeriod, error) {
	w := WaitPeriod{Months: months, Days: days}
	if err := w.Validate(); err != nil {
		return WaitPeriod{}, err
	}
	return w, nil
}

func (w WaitPeriod) Validate() error {
	if w.Months < 0 || w.Days < 0 {
		return fmt.Errorf("%w: months and days must be non-negative, got %s", ErrInvalidWaitPeriod, w)
	}
	if w.Months > MaxWaitMonths || w.Days > MaxWaitDays {
		return fmt.Errorf("%w: %s exceeds %dm%dd", ErrInvalidWaitPeriod, w, MaxWaitMonths, MaxWaitDays)
	}
	return nil
}

// String formats the wait period as "<months>m<days>d", e.g. "1m0d".
func (w WaitPeriod) String() string {
	return fmt.Sprintf("%dm%dd", w.Months, w.Days)
}

var waitPattern = regexp.MustCompile(`^(?:(\d+)m)?(?:(\d+)d)?$`)

// ParseWaitPeriod parses the String form. Either part may be omitted
// ("2m", "7d"); the empty string is rejected.
func ParseWaitPeriod(s string) (WaitPeriod, error) {
	m := waitPattern.FindStringSubmatch(s)
	if s == "" || m == nil {
		return WaitPeriod{}, fmt.Errorf("%w: %q (use e.g. 1m0d)", ErrInvalidWaitPeriod, s)
	}
	months, err := atoiOrZero(m[1])
	if err != nil {
		return WaitPeriod{}, fmt.Errorf("%w: %q: %w", ErrInvalidWaitPeriod, s, err)
	}
	days, err := atoiOrZero(m[2])
	if err != nil {
		return WaitPeriod{}, fmt.Errorf("%w: %q: %w", ErrInvalidWaitPeriod, s, err)
	}
	return NewWaitPeriod(months, days)
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// =============================================================================
// FOLLOW-UP WINDOW
// =============================================================================

// FollowUp returns the lagged collection window for primary.
//
// The start is primary.Start moved by the wait period (months first, with
// day clamping, then days). The end is primary.End moved by the wait months,
// snapped to the end of that month, then moved by the wait days; with zero
// months the end is simply primary.End plus days.
//
//	March 2024, 1m0d  -> [2024-04-01, 2024-04-30]
//	Q4 2024, 1m0d     -> [2024-11-01, 2025-01-31]
//	2024-W10, 0m7d    -> [2024-03-11, 2024-03-17]
func FollowUp(primary calendar.Window, wait WaitPeriod) calendar.Window {
	start := primary.Start.AddMonths(wait.Months).AddDays(wait.Days)

	end := primary.End
	if wait.Months > 0 {
		end = end.AddMonths(wait.Months).EndOfMonth()
	}
	end = end.AddDays(wait.Days)

	return calendar.Window{Start: start, End: end}
}
