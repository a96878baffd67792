/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  period.EventParams (immutable, private fields) from the external API
  contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Periods:
    PeriodTypeDTO, PeriodDTO, CalendarResponse

  Runs:
    RunDTO, CreateRunRequest

VALIDATION:
  Validation is done in handlers and ultimately by period.NewEventParams.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - period/event_params.go: EventParams
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
)

// =============================================================================
// PERIOD TYPES
// =============================================================================

// PeriodTypeDTO describes one registered period type.
type PeriodTypeDTO struct {
	Name           string   `json:"name"`
	Aliases        []string `json:"aliases"`
	NeedsNumber    bool     `json:"needs_number"`
	MinNumber      int      `json:"min_number,omitempty"`
	MaxNumber      int      `json:"max_number,omitempty"`
	PeriodsPerYear int      `json:"periods_per_year"`
}

func toPeriodTypeDTO(t period.Type) PeriodTypeDTO {
	lo, hi := t.Range()
	return PeriodTypeDTO{
		Name:           t.String(),
		Aliases:        t.Aliases(),
		NeedsNumber:    t.NeedsNumber(),
		MinNumber:      lo,
		MaxNumber:      hi,
		PeriodsPerYear: t.PeriodsPerYear(),
	}
}

// =============================================================================
// PERIODS
// =============================================================================

// PeriodDTO is a resolved reporting period.
type PeriodDTO struct {
	Label          string             `json:"label"`
	TaggedLabel    string             `json:"tagged_label"`
	Year           int                `json:"year"`
	PeriodType     string             `json:"period_type"`
	PeriodNumber   int                `json:"period_number,omitempty"`
	EtterslepLabel string             `json:"etterslep_label"`
	Window         calendar.Window    `json:"window"`
	FollowUp       calendar.Window    `json:"etterslep_window"`
	QueryParams    period.QueryParams `json:"query_params"`
	Days           int                `json:"days"`
	Workdays       int                `json:"workdays,omitempty"`
	YearFraction   decimal.Decimal    `json:"year_fraction"`
}

// toPeriodDTO fills Workdays only when wd is non-nil.
func toPeriodDTO(ep *period.EventParams, wd *calendar.Workdays) PeriodDTO {
	dto := PeriodDTO{
		Label:          ep.PeriodLabel(),
		TaggedLabel:    ep.TaggedLabel(),
		Year:           ep.Year(),
		PeriodType:     ep.Type().String(),
		PeriodNumber:   ep.Number(),
		EtterslepLabel: ep.EtterslepLabel(),
		Window:         ep.Window(),
		FollowUp:       ep.FollowUpWindow(),
		QueryParams:    ep.ToQueryParams(),
		Days:           ep.Window().Days(),
		YearFraction:   ep.Window().YearFraction(),
	}
	if wd != nil {
		dto.Workdays = wd.Count(ep.Window())
	}
	return dto
}

// CalendarResponse lists every period of one type in a year.
type CalendarResponse struct {
	Year       int         `json:"year"`
	PeriodType string      `json:"period_type"`
	Wait       string      `json:"wait"`
	Periods    []PeriodDTO `json:"periods"`
}

// =============================================================================
// RUNS
// =============================================================================

// CreateRunRequest is the body of POST /api/runs. Wait uses the "1m0d" form;
// empty means the server default.
type CreateRunRequest struct {
	Dataset      string `json:"dataset"`
	Year         int    `json:"year"`
	PeriodType   string `json:"period_type"`
	PeriodNumber int    `json:"period_number,omitempty"`
	Wait         string `json:"wait,omitempty"`
}

// RunDTO is a persisted extraction parameter set.
type RunDTO struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	CreatedAt time.Time `json:"created_at"`
	Period    PeriodDTO `json:"period"`
}

func toRunDTO(r sqlite.Run, wd *calendar.Workdays) RunDTO {
	return RunDTO{
		ID:        r.ID,
		Dataset:   r.Dataset,
		CreatedAt: r.CreatedAt,
		Period:    toPeriodDTO(r.Params, wd),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
