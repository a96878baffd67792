/*
event_params.go - The EventParams aggregate

PURPOSE:
  EventParams owns one fully validated (year, type, number, wait period)
  tuple and exposes everything downstream extraction code needs: the period
  label, the primary window and the follow-up window, and the four query
  parameters.

LIFECYCLE:
  Constructed once through NewEventParams (raw scalars) or New (typed). All
  derived values are computed at construction; the object is never mutated
  afterwards and is safe to share between goroutines. A failed construction
  returns nil, so a non-nil EventParams is always valid.

VALIDATION ORDER:
  1. year in [MinYear, current year]
  2. period type resolves through the registry
  3. period number within the type's range (ignored for Year)
  4. ISO week exists in the year
  5. wait period non-negative

USAGE:
  ep, err := period.NewEventParams(period.Input{
      Year: 2024, PeriodType: "month", PeriodNumber: 3,
  })
  ep.PeriodLabel()   // "p2024-03"
  ep.ToQueryParams() // {2024-03-01 2024-03-31 2024-04-01 2024-04-30}
  next, err := ep.Next() // p2024-04, same wait
*/
package period

import (
	"time"

	"github.com/warp/period-engine/calendar"
)

// MinYear is the earliest accepted reporting year.
const MinYear = 1900

// Input carries the raw scalars supplied by an input collaborator (HTTP
// query, CLI flags, batch file).
type Input struct {
	Year         int         `json:"year" yaml:"year"`
	PeriodType   string      `json:"period_type" yaml:"period_type"`
	PeriodNumber int         `json:"period_number,omitempty" yaml:"period_number"`
	WaitPeriod   *WaitPeriod `json:"wait_period,omitempty" yaml:"wait_period"`
}

type options struct {
	clock calendar.Clock
}

// Option configures construction.
type Option func(*options)

// WithClock sets the clock used to determine the current year.
func WithClock(clock calendar.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// =============================================================================
// EVENT PARAMS
// =============================================================================

// EventParams is an immutable, validated reporting period.
type EventParams struct {
	year   int
	typ    Type
	number int
	wait   WaitPeriod

	window   calendar.Window
	followUp calendar.Window
}

// NewEventParams validates raw input and builds EventParams. A nil
// WaitPeriod means DefaultWaitPeriod.
func NewEventParams(in Input, opts ...Option) (*EventParams, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateYear(in.Year, o.clock); err != nil {
		return nil, err
	}

	t, err := ParseType(in.PeriodType)
	if err != nil {
		return nil, err
	}

	wait := DefaultWaitPeriod
	if in.WaitPeriod != nil {
		wait = *in.WaitPeriod
	}
	return build(in.Year, t, in.PeriodNumber, wait)
}

// New builds EventParams for callers that already hold a Type. The year is
// checked against the current year from time.Now.
func New(year int, t Type, number int, wait WaitPeriod) (*EventParams, error) {
	if err := validateYear(year, time.Now); err != nil {
		return nil, err
	}
	return build(year, t, number, wait)
}

func build(year int, t Type, number int, wait WaitPeriod) (*EventParams, error) {
	n, err := t.ValidateNumber(number)
	if err != nil {
		return nil, err
	}
	window, err := Resolve(year, t, n)
	if err != nil {
		return nil, err
	}
	if err := wait.Validate(); err != nil {
		return nil, err
	}

	return &EventParams{
		year:     year,
		typ:      t,
		number:   n,
		wait:     wait,
		window:   window,
		followUp: FollowUp(window, wait),
	}, nil
}

func validateYear(year int, clock calendar.Clock) error {
	current := calendar.Today(clock).Year()
	if year < MinYear || year > current {
		return &YearOutOfRangeError{Year: year, Min: MinYear, Max: current}
	}
	return nil
}

// Accessors
func (e *EventParams) Year() int               { return e.year }
func (e *EventParams) Type() Type              { return e.typ }
func (e *EventParams) Number() int             { return e.number }
func (e *EventParams) Wait() WaitPeriod        { return e.wait }
func (e *EventParams) Window() calendar.Window { return e.window }

// FollowUpWindow returns the etterslep window.
func (e *EventParams) FollowUpWindow() calendar.Window { return e.followUp }

// PeriodLabel returns the canonical label, e.g. "p2024-03".
func (e *EventParams) PeriodLabel() string { return Label(e.year, e.typ, e.number) }

// TaggedLabel returns the type-tagged label, e.g. "p2024-Q1".
func (e *EventParams) TaggedLabel() string { return TaggedLabel(e.year, e.typ, e.number) }

// EtterslepLabel returns the wait period as "1m0d".
func (e *EventParams) EtterslepLabel() string { return e.wait.String() }

// Equal reports value equality.
func (e *EventParams) Equal(other *EventParams) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.year == other.year && e.typ == other.typ && e.number == other.number && e.wait == other.wait
}

func (e *EventParams) String() string {
	return e.TaggedLabel() + " " + e.window.String() + " etterslep " + e.EtterslepLabel() + " " + e.followUp.String()
}

// =============================================================================
// QUERY PARAMETERS
// =============================================================================

// QueryParams parameterises source-system extraction queries.
type QueryParams struct {
	StartDate      calendar.Date `json:"start_date"`
	EndDate        calendar.Date `json:"end_date"`
	EtterslepStart calendar.Date `json:"etterslep_start"`
	EtterslepEnd   calendar.Date `json:"etterslep_end"`
}

// ToQueryParams returns the primary and follow-up window bounds.
func (e *EventParams) ToQueryParams() QueryParams {
	return QueryParams{
		StartDate:      e.window.Start,
		EndDate:        e.window.End,
		EtterslepStart: e.followUp.Start,
		EtterslepEnd:   e.followUp.End,
	}
}

// Map returns exactly the four named parameters, e.g. for sql.Named.
func (q QueryParams) Map() map[string]calendar.Date {
	return map[string]calendar.Date{
		"start_date":      q.StartDate,
		"end_date":        q.EndDate,
		"etterslep_start": q.EtterslepStart,
		"etterslep_end":   q.EtterslepEnd,
	}
}

// Parameters is the full record of a resolved period, including the inputs.
type Parameters struct {
	Year           int           `json:"year"`
	PeriodType     Type          `json:"period_type"`
	PeriodNumber   int           `json:"period_number,omitempty"`
	StartDate      calendar.Date `json:"start_date"`
	EndDate        calendar.Date `json:"end_date"`
	EtterslepStart calendar.Date `json:"etterslep_start"`
	EtterslepEnd   calendar.Date `json:"etterslep_end"`
	WaitMonths     int           `json:"wait_months"`
	WaitDays       int           `json:"wait_days"`
}

// Parameters returns the inputs together with the derived dates.
func (e *EventParams) Parameters() Parameters {
	q := e.ToQueryParams()
	return Parameters{
		Year:           e.year,
		PeriodType:     e.typ,
		PeriodNumber:   e.number,
		StartDate:      q.StartDate,
		EndDate:        q.EndDate,
		EtterslepStart: q.EtterslepStart,
		EtterslepEnd:   q.EtterslepEnd,
		WaitMonths:     e.wait.Months,
		WaitDays:       e.wait.Days,
	}
}

// =============================================================================
// STEPPING
// =============================================================================

// Next returns the period following e with the same type and wait, rolling
// into the next year after the last period (H2 -> H1, Dec -> Jan, the last
// ISO week -> W01). The result is subject to the same year bound as
// NewEventParams, so stepping past the current year fails.
func (e *EventParams) Next(opts ...Option) (*EventParams, error) {
	return e.step(1, opts)
}

// Prev returns the period preceding e, rolling back into the previous year
// before the first period (Q1 -> Q4, W01 -> W52 or W53).
func (e *EventParams) Prev(opts ...Option) (*EventParams, error) {
	return e.step(-1, opts)
}

func (e *EventParams) step(delta int, opts []Option) (*EventParams, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	year, number := e.year+delta, 0
	if e.typ.NeedsNumber() {
		year, number = e.year, e.number+delta
		switch {
		case number < 1:
			year--
			number = periodCount(year, e.typ)
		case number > periodCount(year, e.typ):
			year++
			number = 1
		}
	}

	if err := validateYear(year, o.clock); err != nil {
		return nil, err
	}
	return build(year, e.typ, number, e.wait)
}

func periodCount(year int, t Type) int {
	if t == Week {
		return calendar.ISOWeeksInYear(year)
	}
	return t.PeriodsPerYear()
}

// =============================================================================
// ENUMERATION
// =============================================================================

// PeriodsInYear returns every period of type t in year, in order: one year,
// two half-years, four quarters, twelve months, or 52/53 ISO weeks.
func PeriodsInYear(year int, t Type, wait WaitPeriod, opts ...Option) ([]*EventParams, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateYear(year, o.clock); err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, &UnrecognizedPeriodTypeError{Input: t.String()}
	}

	count := periodCount(year, t)

	out := make([]*EventParams, 0, count)
	for n := 1; n <= count; n++ {
		ep, err := build(year, t, n, wait)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}
