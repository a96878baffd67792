package period

import (
	"fmt"
	"regexp"
	"strconv"
)

// Label returns the canonical identifier for a period: "p2024" for Year and
// "p<year>-<NN>" with a zero-padded two-digit number otherwise ("p2024-03").
// Label is presentational only; callers pass numbers already accepted by
// Resolve.
func Label(year int, t Type, number int) string {
	if !t.NeedsNumber() {
		return fmt.Sprintf("p%d", year)
	}
	return fmt.Sprintf("p%d-%02d", year, number)
}

// TaggedLabel disambiguates the period type in the label, so a half-year and
// a month with the same number never collide in artifact names:
//
//	year p2024, halfyear p2024-H1, quarter p2024-Q1, month p2024-01, week p2024-W02
func TaggedLabel(year int, t Type, number int) string {
	switch t {
	case HalfYear:
		return fmt.Sprintf("p%d-H%d", year, number)
	case Quarter:
		return fmt.Sprintf("p%d-Q%d", year, number)
	case Week:
		return fmt.Sprintf("p%d-W%02d", year, number)
	}
	return Label(year, t, number)
}

// Half-years and quarters carry one digit, months and weeks two.
var taggedLabelPattern = regexp.MustCompile(`^p(\d{4})(?:-([HQ])(\d)|-(W?)(\d{2}))?$`)

// ParseLabel reverses TaggedLabel. A canonical month label ("p2024-03")
// parses as Month since untagged numbers denote months. The parsed number is
// range-checked but the ISO week count is not; Resolve does that.
func ParseLabel(s string) (year int, t Type, number int, err error) {
	m := taggedLabelPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
	year, _ = strconv.Atoi(m[1])

	var digits string
	switch {
	case m[2] == "H":
		t, digits = HalfYear, m[3]
	case m[2] == "Q":
		t, digits = Quarter, m[3]
	case m[4] == "W":
		t, digits = Week, m[5]
	case m[5] != "":
		t, digits = Month, m[5]
	default:
		return year, Year, 0, nil
	}

	number, _ = strconv.Atoi(digits)
	if _, err := t.ValidateNumber(number); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q: %w", ErrInvalidLabel, s, err)
	}
	return year, t, number, nil
}
