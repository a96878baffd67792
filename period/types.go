package period

import (
	"strings"
)

// =============================================================================
// PERIOD TYPE REGISTRY
// =============================================================================

// Type is one of the five supported reporting period kinds.
type Type int

const (
	Year Type = iota + 1
	HalfYear
	Quarter
	Month
	Week
)

type typeInfo struct {
	name    string
	aliases []string
	min     int
	max     int
}

// registry is the closed set of period types. Aliases are matched after
// lower-casing and trimming the input.
var registry = map[Type]typeInfo{
	Year:     {name: "year", aliases: []string{"y", "yearly", "annual", "år"}},
	HalfYear: {name: "halfyear", aliases: []string{"h", "half", "half-year", "half_year", "halfyearly", "halvår"}, min: 1, max: 2},
	Quarter:  {name: "quarter", aliases: []string{"q", "quarterly", "kvartal"}, min: 1, max: 4},
	Month:    {name: "month", aliases: []string{"m", "monthly", "måned", "mnd"}, min: 1, max: 12},
	Week:     {name: "week", aliases: []string{"w", "weekly", "uke"}, min: 1, max: 53},
}

var lookup = buildLookup()

func buildLookup() map[string]Type {
	m := make(map[string]Type)
	for t, info := range registry {
		m[info.name] = t
		for _, a := range info.aliases {
			m[a] = t
		}
	}
	return m
}

// Types returns every period type in canonical order, longest first.
func Types() []Type {
	return []Type{Year, HalfYear, Quarter, Month, Week}
}

// ParseType resolves a full name or alias, case-insensitively.
func ParseType(s string) (Type, error) {
	if t, ok := lookup[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return 0, &UnrecognizedPeriodTypeError{Input: s}
}

// Valid reports whether t is a registered type.
func (t Type) Valid() bool {
	_, ok := registry[t]
	return ok
}

// String returns the canonical name, e.g. "quarter".
func (t Type) String() string {
	if info, ok := registry[t]; ok {
		return info.name
	}
	return "unknown"
}

// Aliases returns the accepted short forms, excluding the canonical name.
func (t Type) Aliases() []string {
	return append([]string(nil), registry[t].aliases...)
}

// NeedsNumber is false only for Year.
func (t Type) NeedsNumber() bool {
	return t != Year
}

// Range returns the inclusive valid period-number bounds. Year returns (0, 0).
func (t Type) Range() (lo, hi int) {
	info := registry[t]
	return info.min, info.max
}

// ValidateNumber checks n against the declared range and returns the
// normalised number. For Year the number is not applicable and is dropped.
// ISO week counts are year-dependent and checked by Resolve.
func (t Type) ValidateNumber(n int) (int, error) {
	info, ok := registry[t]
	if !ok {
		return 0, &UnrecognizedPeriodTypeError{Input: t.String()}
	}
	if !t.NeedsNumber() {
		return 0, nil
	}
	if n < info.min || n > info.max {
		return 0, &PeriodNumberOutOfRangeError{Type: t, Number: n, Min: info.min, Max: info.max}
	}
	return n, nil
}

// PeriodsPerYear returns how many periods of t a year is split into. Week
// returns the upper bound 53; use calendar.ISOWeeksInYear for a given year.
func (t Type) PeriodsPerYear() int {
	if t == Year {
		return 1
	}
	return registry[t].max
}

// MarshalText encodes the canonical name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts any name or alias.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func typeChoices() string {
	names := make([]string, 0, len(registry))
	for _, t := range Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, "/")
}
