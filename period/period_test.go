package period_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/period"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func date(y int, m time.Month, d int) calendar.Date { return calendar.NewDate(y, m, d) }

func fixedClock(year int) period.Option {
	return period.WithClock(func() time.Time {
		return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
	})
}

func mustParams(t *testing.T, year int, typ string, number int) *period.EventParams {
	t.Helper()
	ep, err := period.NewEventParams(period.Input{Year: year, PeriodType: typ, PeriodNumber: number}, fixedClock(2026))
	require.NoError(t, err)
	return ep
}

// =============================================================================
// REGISTRY
// =============================================================================

func TestParseType_NamesAndAliases(t *testing.T) {
	tests := map[string]period.Type{
		"year":      period.Year,
		"YEAR":      period.Year,
		" y ":       period.Year,
		"halfyear":  period.HalfYear,
		"h":         period.HalfYear,
		"Half-Year": period.HalfYear,
		"halvår":    period.HalfYear,
		"quarter":   period.Quarter,
		"Q":         period.Quarter,
		"kvartal":   period.Quarter,
		"month":     period.Month,
		"m":         period.Month,
		"måned":     period.Month,
		"week":      period.Week,
		"w":         period.Week,
		"uke":       period.Week,
	}
	for in, want := range tests {
		got, err := period.ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseType_Unrecognized(t *testing.T) {
	for _, in := range []string{"", "years", "day", "x"} {
		_, err := period.ParseType(in)
		assert.ErrorIs(t, err, period.ErrUnrecognizedPeriodType, in)

		var typeErr *period.UnrecognizedPeriodTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, in, typeErr.Input)
	}
}

func TestType_Ranges(t *testing.T) {
	expect := map[period.Type][2]int{
		period.Year:     {0, 0},
		period.HalfYear: {1, 2},
		period.Quarter:  {1, 4},
		period.Month:    {1, 12},
		period.Week:     {1, 53},
	}
	for typ, bounds := range expect {
		lo, hi := typ.Range()
		assert.Equal(t, bounds[0], lo, typ.String())
		assert.Equal(t, bounds[1], hi, typ.String())
	}
	assert.False(t, period.Year.NeedsNumber())
	assert.True(t, period.Week.NeedsNumber())
	assert.Len(t, period.Types(), 5)
}

func TestType_ValidateNumber(t *testing.T) {
	// Year ignores the number entirely.
	n, err := period.Year.ValidateNumber(7)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = period.Month.ValidateNumber(13)
	var rangeErr *period.PeriodNumberOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 1, rangeErr.Min)
	assert.Equal(t, 12, rangeErr.Max)
	assert.Equal(t, 13, rangeErr.Number)

	_, err = period.Quarter.ValidateNumber(0)
	assert.ErrorIs(t, err, period.ErrPeriodNumberOutOfRange)

	_, err = period.HalfYear.ValidateNumber(3)
	assert.ErrorIs(t, err, period.ErrPeriodNumberOutOfRange)

	_, err = period.Week.ValidateNumber(54)
	assert.ErrorIs(t, err, period.ErrPeriodNumberOutOfRange)
}

func TestType_JSON(t *testing.T) {
	b, err := json.Marshal(period.HalfYear)
	require.NoError(t, err)
	assert.Equal(t, `"halfyear"`, string(b))

	var typ period.Type
	require.NoError(t, json.Unmarshal([]byte(`"q"`), &typ))
	assert.Equal(t, period.Quarter, typ)
	assert.Error(t, json.Unmarshal([]byte(`"fortnight"`), &typ))
}

// =============================================================================
// RESOLVER
// =============================================================================

func TestResolve_KnownWindows(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		typ    period.Type
		number int
		start  calendar.Date
		end    calendar.Date
	}{
		{"year", 2024, period.Year, 0, date(2024, 1, 1), date(2024, 12, 31)},
		{"halfyear 1", 2024, period.HalfYear, 1, date(2024, 1, 1), date(2024, 6, 30)},
		{"halfyear 2", 2023, period.HalfYear, 2, date(2023, 7, 1), date(2023, 12, 31)},
		{"quarter 1 leap", 2024, period.Quarter, 1, date(2024, 1, 1), date(2024, 3, 31)},
		{"quarter 2", 2024, period.Quarter, 2, date(2024, 4, 1), date(2024, 6, 30)},
		{"quarter 3", 2024, period.Quarter, 3, date(2024, 7, 1), date(2024, 9, 30)},
		{"quarter 4", 2024, period.Quarter, 4, date(2024, 10, 1), date(2024, 12, 31)},
		{"month feb leap", 2024, period.Month, 2, date(2024, 2, 1), date(2024, 2, 29)},
		{"month feb", 2023, period.Month, 2, date(2023, 2, 1), date(2023, 2, 28)},
		{"month feb 1900", 1900, period.Month, 2, date(1900, 2, 1), date(1900, 2, 28)},
		{"month feb 2000", 2000, period.Month, 2, date(2000, 2, 1), date(2000, 2, 29)},
		{"month april", 2024, period.Month, 4, date(2024, 4, 1), date(2024, 4, 30)},
		{"week 1 2024", 2024, period.Week, 1, date(2024, 1, 1), date(2024, 1, 7)},
		{"week 10 2024", 2024, period.Week, 10, date(2024, 3, 4), date(2024, 3, 10)},
		{"week 53 2020", 2020, period.Week, 53, date(2020, 12, 28), date(2021, 1, 3)},
		{"week 1 2021", 2021, period.Week, 1, date(2021, 1, 4), date(2021, 1, 10)},
		{"week 1 2025 starts in 2024", 2025, period.Week, 1, date(2024, 12, 30), date(2025, 1, 5)},
		{"week 52 2024 ends in 2024", 2024, period.Week, 52, date(2024, 12, 23), date(2024, 12, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := period.Resolve(tt.year, tt.typ, tt.number)
			require.NoError(t, err)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
		})
	}
}

func TestResolve_MonthEndsAreMonthLengths(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for m := 1; m <= 12; m++ {
			w, err := period.Resolve(year, period.Month, m)
			require.NoError(t, err)
			require.Equal(t, 1, w.Start.Day())
			require.Equal(t, calendar.DaysIn(year, time.Month(m)), w.End.Day(), "%d-%02d", year, m)
			require.Equal(t, time.Month(m), w.End.Month())
		}
	}
}

func TestResolve_QuarterIsItsThreeMonths(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for q := 1; q <= 4; q++ {
			qw, err := period.Resolve(year, period.Quarter, q)
			require.NoError(t, err)
			first, err := period.Resolve(year, period.Month, 3*(q-1)+1)
			require.NoError(t, err)
			last, err := period.Resolve(year, period.Month, 3*q)
			require.NoError(t, err)
			require.Equal(t, first.Start, qw.Start)
			require.Equal(t, last.End, qw.End)
		}
	}
}

func TestResolve_HalfYearsAreFixed(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		h1, err := period.Resolve(year, period.HalfYear, 1)
		require.NoError(t, err)
		h2, err := period.Resolve(year, period.HalfYear, 2)
		require.NoError(t, err)
		require.Equal(t, calendar.Window{Start: date(year, 1, 1), End: date(year, 6, 30)}, h1)
		require.Equal(t, calendar.Window{Start: date(year, 7, 1), End: date(year, 12, 31)}, h2)
	}
}

func TestResolve_WeekWindowsAreMondayToSunday(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for week := 1; week <= calendar.ISOWeeksInYear(year); week++ {
			w, err := period.Resolve(year, period.Week, week)
			require.NoError(t, err)
			require.Equal(t, time.Monday, w.Start.Weekday())
			require.Equal(t, time.Sunday, w.End.Weekday())
			require.Equal(t, 7, w.Days())
		}
	}
}

func TestResolve_InvalidISOWeekIffBeyondWeekCount(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		_, err := period.Resolve(year, period.Week, 53)
		if calendar.ISOWeeksInYear(year) == 53 {
			require.NoError(t, err, "year %d has 53 weeks", year)
			continue
		}
		require.ErrorIs(t, err, period.ErrInvalidISOWeek, "year %d", year)
		var weekErr *period.InvalidISOWeekError
		require.ErrorAs(t, err, &weekErr)
		require.Equal(t, 52, weekErr.WeeksInYear)
	}
}

// =============================================================================
// LABELS
// =============================================================================

func TestLabel_Canonical(t *testing.T) {
	assert.Equal(t, "p2024", period.Label(2024, period.Year, 0))
	assert.Equal(t, "p2024-01", period.Label(2024, period.HalfYear, 1))
	assert.Equal(t, "p2024-04", period.Label(2024, period.Quarter, 4))
	assert.Equal(t, "p2024-03", period.Label(2024, period.Month, 3))
	assert.Equal(t, "p2024-10", period.Label(2024, period.Month, 10))
	assert.Equal(t, "p2024-02", period.Label(2024, period.Week, 2))
	assert.Equal(t, "p2020-53", period.Label(2020, period.Week, 53))
}

func TestTaggedLabel(t *testing.T) {
	assert.Equal(t, "p2024", period.TaggedLabel(2024, period.Year, 0))
	assert.Equal(t, "p2024-H1", period.TaggedLabel(2024, period.HalfYear, 1))
	assert.Equal(t, "p2024-H2", period.TaggedLabel(2024, period.HalfYear, 2))
	assert.Equal(t, "p2024-Q1", period.TaggedLabel(2024, period.Quarter, 1))
	assert.Equal(t, "p2024-Q4", period.TaggedLabel(2024, period.Quarter, 4))
	assert.Equal(t, "p2024-01", period.TaggedLabel(2024, period.Month, 1))
	assert.Equal(t, "p2024-W02", period.TaggedLabel(2024, period.Week, 2))
	assert.Equal(t, "p2024-W12", period.TaggedLabel(2024, period.Week, 12))
}

func TestParseLabel_RoundTrip(t *testing.T) {
	for _, typ := range period.Types() {
		hi := typ.PeriodsPerYear()
		for n := 1; n <= hi; n++ {
			label := period.TaggedLabel(2020, typ, n)
			year, gotType, gotNumber, err := period.ParseLabel(label)
			require.NoError(t, err, label)
			assert.Equal(t, 2020, year)
			assert.Equal(t, typ, gotType, label)
			if typ == period.Year {
				assert.Equal(t, 0, gotNumber)
			} else {
				assert.Equal(t, n, gotNumber, label)
			}
		}
	}
}

func TestParseLabel_Invalid(t *testing.T) {
	for _, in := range []string{"", "2024", "p24", "p2024-", "p2024-13", "p2024-Q5", "p2024-H0", "p2024-X1", "p2024-W54",
		"p2024-3", "p2024-W3", "p2024-H01", "p2024-Q01", "p2024-003",
	} {
		_, _, _, err := period.ParseLabel(in)
		assert.ErrorIs(t, err, period.ErrInvalidLabel, in)
	}
}

// =============================================================================
// FOLLOW-UP WINDOW
// =============================================================================

func TestFollowUp(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		typ    period.Type
		number int
		wait   period.WaitPeriod
		start  calendar.Date
		end    calendar.Date
	}{
		{"default on march", 2024, period.Month, 3, period.DefaultWaitPeriod, date(2024, 4, 1), date(2024, 4, 30)},
		{"days only on week", 2024, period.Week, 10, period.WaitPeriod{Days: 7}, date(2024, 3, 11), date(2024, 3, 17)},
		{"december rollover", 2024, period.Quarter, 4, period.DefaultWaitPeriod, date(2024, 11, 1), date(2025, 1, 31)},
		{"leap february", 2024, period.Month, 1, period.DefaultWaitPeriod, date(2024, 2, 1), date(2024, 2, 29)},
		{"non-leap february", 2023, period.Month, 1, period.DefaultWaitPeriod, date(2023, 2, 1), date(2023, 2, 28)},
		{"quarter 2", 2024, period.Quarter, 2, period.DefaultWaitPeriod, date(2024, 5, 1), date(2024, 7, 31)},
		{"zero wait", 1991, period.Week, 17, period.WaitPeriod{}, date(1991, 4, 22), date(1991, 4, 28)},
		{"year days only", 2025, period.Year, 0, period.WaitPeriod{Days: 7}, date(2025, 1, 8), date(2026, 1, 7)},
		{"months and days", 2024, period.Month, 12, period.WaitPeriod{Months: 2, Days: 5}, date(2025, 2, 6), date(2025, 3, 5)},
		{"year by three months", 2023, period.Year, 0, period.WaitPeriod{Months: 3}, date(2023, 4, 1), date(2024, 3, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := period.Resolve(tt.year, tt.typ, tt.number)
			require.NoError(t, err)
			got := period.FollowUp(w, tt.wait)
			assert.Equal(t, tt.start, got.Start)
			assert.Equal(t, tt.end, got.End)
		})
	}
}

func TestFollowUp_NeverInverted(t *testing.T) {
	waits := []period.WaitPeriod{{}, {Days: 1}, {Days: 45}, {Months: 1}, {Months: 1, Days: 3}, {Months: 13, Days: 30}}
	for _, typ := range period.Types() {
		for n := 1; n <= typ.PeriodsPerYear(); n++ {
			w, err := period.Resolve(2020, typ, n)
			require.NoError(t, err)
			for _, wait := range waits {
				got := period.FollowUp(w, wait)
				require.False(t, got.End.Before(got.Start), "%s %d %s", typ, n, wait)
			}
		}
	}
}

func TestWaitPeriod(t *testing.T) {
	assert.Equal(t, "1m0d", period.DefaultWaitPeriod.String())
	assert.Equal(t, "0m7d", period.WaitPeriod{Days: 7}.String())
	assert.Equal(t, "3m5d", period.WaitPeriod{Months: 3, Days: 5}.String())

	_, err := period.NewWaitPeriod(-1, 0)
	assert.ErrorIs(t, err, period.ErrInvalidWaitPeriod)
	_, err = period.NewWaitPeriod(0, -3)
	assert.ErrorIs(t, err, period.ErrInvalidWaitPeriod)

	for in, want := range map[string]period.WaitPeriod{
		"1m0d": {Months: 1},
		"2m":   {Months: 2},
		"7d":   {Days: 7},
		"3m5d": {Months: 3, Days: 5},
	} {
		got, err := period.ParseWaitPeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "m", "1x", "-1m", "1d2m", "99999999999999999999m", "0m99999999999999999999d", "1201m", "0m36601d"} {
		_, err := period.ParseWaitPeriod(in)
		assert.ErrorIs(t, err, period.ErrInvalidWaitPeriod, in)
	}

	got, err := period.ParseWaitPeriod("1200m36600d")
	require.NoError(t, err)
	assert.Equal(t, period.WaitPeriod{Months: period.MaxWaitMonths, Days: period.MaxWaitDays}, got)
}

func TestEventParams_RejectsHugeWait(t *testing.T) {
	// GIVEN: a wait far beyond any collection delay
	huge := period.WaitPeriod{Months: 768614336404564650}

	// WHEN: building March 2024 with it
	ep, err := period.NewEventParams(period.Input{
		Year: 2024, PeriodType: "month", PeriodNumber: 3, WaitPeriod: &huge,
	}, fixedClock(2026))

	// THEN: construction fails instead of producing a wrapped-around window
	assert.Nil(t, ep)
	assert.ErrorIs(t, err, period.ErrInvalidWaitPeriod)
}

// =============================================================================
// EVENT PARAMS
// =============================================================================

func TestEventParams_MonthScenario(t *testing.T) {
	// GIVEN: March 2024 with the default wait period
	ep := mustParams(t, 2024, "month", 3)

	// THEN: label, window and query parameters match the published example
	assert.Equal(t, "p2024-03", ep.PeriodLabel())
	assert.Equal(t, calendar.Window{Start: date(2024, 3, 1), End: date(2024, 3, 31)}, ep.Window())
	assert.Equal(t, period.QueryParams{
		StartDate:      date(2024, 3, 1),
		EndDate:        date(2024, 3, 31),
		EtterslepStart: date(2024, 4, 1),
		EtterslepEnd:   date(2024, 4, 30),
	}, ep.ToQueryParams())
	assert.Equal(t, "1m0d", ep.EtterslepLabel())

	m := ep.ToQueryParams().Map()
	assert.Len(t, m, 4)
	assert.Equal(t, date(2024, 4, 30), m["etterslep_end"])
}

func TestEventParams_Scenarios(t *testing.T) {
	q1 := mustParams(t, 2024, "quarter", 1)
	assert.Equal(t, calendar.Window{Start: date(2024, 1, 1), End: date(2024, 3, 31)}, q1.Window())
	assert.Equal(t, "p2024-Q1", q1.TaggedLabel())

	w1 := mustParams(t, 2024, "week", 1)
	assert.Equal(t, date(2024, 1, 1), w1.Window().Start)
	assert.Equal(t, time.Monday, w1.Window().Start.Weekday())

	_, err := period.NewEventParams(period.Input{Year: 2024, PeriodType: "week", PeriodNumber: 53}, fixedClock(2026))
	assert.ErrorIs(t, err, period.ErrInvalidISOWeek)

	h2 := mustParams(t, 2023, "halfyear", 2)
	assert.Equal(t, calendar.Window{Start: date(2023, 7, 1), End: date(2023, 12, 31)}, h2.Window())

	_, err = period.NewEventParams(period.Input{Year: 2024, PeriodType: "month", PeriodNumber: 13}, fixedClock(2026))
	assert.ErrorIs(t, err, period.ErrPeriodNumberOutOfRange)
}

func TestEventParams_YearIgnoresNumber(t *testing.T) {
	ep := mustParams(t, 2024, "year", 5)
	assert.Equal(t, 0, ep.Number())
	assert.Equal(t, "p2024", ep.PeriodLabel())
	assert.True(t, ep.Equal(mustParams(t, 2024, "y", 0)))
}

func TestEventParams_MissingNumber(t *testing.T) {
	_, err := period.NewEventParams(period.Input{Year: 2024, PeriodType: "quarter"}, fixedClock(2026))
	var rangeErr *period.PeriodNumberOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, period.Quarter, rangeErr.Type)
}

func TestEventParams_YearRange(t *testing.T) {
	tests := []struct {
		year int
		ok   bool
	}{
		{1899, false},
		{1900, true},
		{2025, true},
		{2026, true},
		{2027, false},
	}
	for _, tt := range tests {
		ep, err := period.NewEventParams(period.Input{Year: tt.year, PeriodType: "year"}, fixedClock(2026))
		if tt.ok {
			assert.NoError(t, err, tt.year)
			assert.NotNil(t, ep)
			continue
		}
		assert.Nil(t, ep)
		var yearErr *period.YearOutOfRangeError
		require.ErrorAs(t, err, &yearErr, tt.year)
		assert.Equal(t, 1900, yearErr.Min)
		assert.Equal(t, 2026, yearErr.Max)
	}
}

func TestEventParams_CustomWait(t *testing.T) {
	ep, err := period.NewEventParams(period.Input{
		Year:         2024,
		PeriodType:   "w",
		PeriodNumber: 10,
		WaitPeriod:   &period.WaitPeriod{Days: 7},
	}, fixedClock(2026))
	require.NoError(t, err)
	assert.Equal(t, calendar.Window{Start: date(2024, 3, 11), End: date(2024, 3, 17)}, ep.FollowUpWindow())
	assert.Equal(t, "0m7d", ep.EtterslepLabel())

	_, err = period.NewEventParams(period.Input{
		Year:         2024,
		PeriodType:   "month",
		PeriodNumber: 1,
		WaitPeriod:   &period.WaitPeriod{Months: -1},
	}, fixedClock(2026))
	assert.ErrorIs(t, err, period.ErrInvalidWaitPeriod)
}

func TestEventParams_UnknownType(t *testing.T) {
	ep, err := period.NewEventParams(period.Input{Year: 2024, PeriodType: "fortnight", PeriodNumber: 1}, fixedClock(2026))
	assert.Nil(t, ep)
	assert.True(t, period.IsClientError(err))
	assert.ErrorIs(t, err, period.ErrUnrecognizedPeriodType)
}

func TestEventParams_Parameters(t *testing.T) {
	ep, err := period.New(2024, period.Quarter, 2, period.DefaultWaitPeriod)
	require.NoError(t, err)

	p := ep.Parameters()
	assert.Equal(t, period.Parameters{
		Year:           2024,
		PeriodType:     period.Quarter,
		PeriodNumber:   2,
		StartDate:      date(2024, 4, 1),
		EndDate:        date(2024, 6, 30),
		EtterslepStart: date(2024, 5, 1),
		EtterslepEnd:   date(2024, 7, 31),
		WaitMonths:     1,
		WaitDays:       0,
	}, p)

	b, err := json.Marshal(ep.ToQueryParams())
	require.NoError(t, err)
	assert.JSONEq(t, `{"start_date":"2024-04-01","end_date":"2024-06-30","etterslep_start":"2024-05-01","etterslep_end":"2024-07-31"}`, string(b))
}

func TestPeriodsInYear(t *testing.T) {
	counts := map[period.Type]int{
		period.Year:     1,
		period.HalfYear: 2,
		period.Quarter:  4,
		period.Month:    12,
	}
	for typ, want := range counts {
		eps, err := period.PeriodsInYear(2024, typ, period.DefaultWaitPeriod, fixedClock(2026))
		require.NoError(t, err)
		assert.Len(t, eps, want, typ.String())
		// Windows tile the year with no gaps.
		assert.Equal(t, date(2024, 1, 1), eps[0].Window().Start)
		assert.Equal(t, date(2024, 12, 31), eps[len(eps)-1].Window().End)
		for i := 1; i < len(eps); i++ {
			assert.Equal(t, eps[i-1].Window().End.AddDays(1), eps[i].Window().Start)
		}
	}

	weeks, err := period.PeriodsInYear(2020, period.Week, period.WaitPeriod{}, fixedClock(2026))
	require.NoError(t, err)
	assert.Len(t, weeks, 53)
	weeks, err = period.PeriodsInYear(2024, period.Week, period.WaitPeriod{}, fixedClock(2026))
	require.NoError(t, err)
	assert.Len(t, weeks, 52)

	_, err = period.PeriodsInYear(2030, period.Month, period.DefaultWaitPeriod, fixedClock(2026))
	assert.True(t, errors.Is(err, period.ErrYearOutOfRange))
}

func TestEventParams_NextAndPrev(t *testing.T) {
	tests := []struct {
		name       string
		typ        string
		year, num  int
		next, prev string
	}{
		{"year", "year", 2020, 0, "p2021", "p2019"},
		{"half-year rolls forward", "halfyear", 2023, 2, "p2024-H1", "p2023-H1"},
		{"half-year rolls back", "halfyear", 2023, 1, "p2023-H2", "p2022-H2"},
		{"quarter rolls back", "quarter", 2024, 1, "p2024-Q2", "p2023-Q4"},
		{"quarter rolls forward", "quarter", 2023, 4, "p2024-Q1", "p2023-Q3"},
		{"december", "month", 2023, 12, "p2024-01", "p2023-11"},
		{"january", "month", 2024, 1, "p2024-02", "p2023-12"},
		{"week 52 of a 52-week year", "week", 2021, 52, "p2022-W01", "p2021-W51"},
		{"week 53", "week", 2020, 53, "p2021-W01", "p2020-W52"},
		{"week 1 after a 53-week year", "week", 2021, 1, "p2021-W02", "p2020-W53"},
		{"week 1 after a 52-week year", "week", 2022, 1, "p2022-W02", "p2021-W52"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN: a period with a non-default wait
			wait := period.WaitPeriod{Months: 2, Days: 3}
			ep, err := period.NewEventParams(period.Input{
				Year: tt.year, PeriodType: tt.typ, PeriodNumber: tt.num, WaitPeriod: &wait,
			}, fixedClock(2026))
			require.NoError(t, err)

			// WHEN: stepping both ways
			next, err := ep.Next(fixedClock(2026))
			require.NoError(t, err)
			prev, err := ep.Prev(fixedClock(2026))
			require.NoError(t, err)

			// THEN: labels roll over the year and the wait is carried
			assert.Equal(t, tt.next, next.TaggedLabel())
			assert.Equal(t, tt.prev, prev.TaggedLabel())
			assert.Equal(t, wait, next.Wait())
			assert.Equal(t, wait, prev.Wait())
			assert.Equal(t, ep.Window().End.AddDays(1), next.Window().Start)
			assert.Equal(t, ep.Window().Start.AddDays(-1), prev.Window().End)
		})
	}
}

func TestEventParams_StepOutOfRange(t *testing.T) {
	last := mustParams(t, 2026, "quarter", 4)
	_, err := last.Next(fixedClock(2026))
	assert.ErrorIs(t, err, period.ErrYearOutOfRange)

	first := mustParams(t, 1900, "month", 1)
	_, err = first.Prev(fixedClock(2026))
	assert.ErrorIs(t, err, period.ErrYearOutOfRange)
}

func TestEventParams_ConcurrentReads(t *testing.T) {
	ep := mustParams(t, 2024, "month", 2)
	done := make(chan period.QueryParams, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- ep.ToQueryParams() }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, date(2024, 2, 29), (<-done).EndDate)
	}
}
