package period

import (
	"fmt"
	"time"

	"github.com/warp/period-engine/calendar"
)

// LatestClosed returns the most recent period of type t whose follow-up
// window ended before today, i.e. the newest period whose data collection is
// complete and which can be extracted.
func LatestClosed(t Type, wait WaitPeriod, today calendar.Date) (*EventParams, error) {
	if !t.Valid() {
		return nil, &UnrecognizedPeriodTypeError{Input: t.String()}
	}
	if err := wait.Validate(); err != nil {
		return nil, err
	}

	clock := func() time.Time { return today.Time() }
	for year := today.Year(); year >= MinYear; year-- {
		eps, err := PeriodsInYear(year, t, wait, WithClock(clock))
		if err != nil {
			return nil, err
		}
		for i := len(eps) - 1; i >= 0; i-- {
			if eps[i].FollowUpWindow().End.Before(today) {
				return eps[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no %s period has closed by %s", ErrYearOutOfRange, t, today)
}
