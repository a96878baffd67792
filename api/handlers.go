/*
handlers.go - HTTP API handlers for the period engine

PURPOSE:
  Exposes period resolution and run bookkeeping via REST API. Handles HTTP
  request/response and JSON serialization, and delegates every date
  computation to package period.

ENDPOINTS:
  Periods:
    GET    /api/period-types            List registered period types
    GET    /api/periods/resolve         Resolve one period
    GET    /api/periods/calendar        All periods of a type in a year
                                        (format=json|xlsx|pdf)
    GET    /api/periods/latest          Newest period ready for extraction

  Runs:
    POST   /api/runs                    Resolve and persist a run
    GET    /api/runs                    List runs (?dataset=&limit=)
    GET    /api/runs/{id}               Get one run
    GET    /api/runs/label/{label}      Runs for a period label

QUERY PARAMETERS:
  year    four-digit reporting year (required)
  type    period type name or alias (required)
  number  period number, ignored for year
  wait    follow-up wait in "1m0d" form, defaults to server config

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (period.IsClientError)
  - 404: Run not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/export"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       *sqlite.Store
	Logger      *zap.Logger
	DefaultWait period.WaitPeriod
	Workdays    *calendar.Workdays

	// Clock decides the current year for year validation.
	Clock calendar.Clock
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, logger *zap.Logger, defaultWait period.WaitPeriod) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:       store,
		Logger:      logger.Named("api"),
		DefaultWait: defaultWait,
		Workdays:    calendar.NorwegianWorkdays(),
		Clock:       time.Now,
	}
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// ListPeriodTypes returns the period type registry.
// GET /api/period-types
func (h *Handler) ListPeriodTypes(w http.ResponseWriter, r *http.Request) {
	types := period.Types()
	dtos := make([]PeriodTypeDTO, len(types))
	for i, t := range types {
		dtos[i] = toPeriodTypeDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResolvePeriod resolves a single period from query parameters.
// GET /api/periods/resolve?year=2024&type=quarter&number=1&wait=1m0d
func (h *Handler) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in, err := h.inputFromValues(q.Get("year"), q.Get("type"), q.Get("number"), q.Get("wait"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	ep, err := h.resolve(in)
	if err != nil {
		h.writePeriodError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(ep, h.Workdays))
}

// PeriodCalendar returns every period of a type in a year.
// GET /api/periods/calendar?year=2024&type=month&format=xlsx
func (h *Handler) PeriodCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	t, err := period.ParseType(q.Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period type", err)
		return
	}
	wait, err := h.waitFromValue(q.Get("wait"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid wait period", err)
		return
	}

	eps, err := period.PeriodsInYear(year, t, wait, period.WithClock(h.Clock))
	if err != nil {
		h.writePeriodError(w, err)
		return
	}

	filename := fmt.Sprintf("periods-%d-%s", year, t)
	switch format := strings.ToLower(q.Get("format")); format {
	case "", "json":
		resp := CalendarResponse{
			Year:       year,
			PeriodType: t.String(),
			Wait:       wait.String(),
			Periods:    make([]PeriodDTO, len(eps)),
		}
		for i, ep := range eps {
			resp.Periods[i] = toPeriodDTO(ep, h.Workdays)
		}
		writeJSON(w, http.StatusOK, resp)
	case "xlsx":
		data, err := export.BuildCalendarXLSX(eps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to build spreadsheet", err)
			return
		}
		writeFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename+".xlsx", data)
	case "pdf":
		title := fmt.Sprintf("Reporting periods %d (%s, etterslep %s)", year, t, wait)
		data, err := export.BuildCalendarPDF(title, eps)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to build PDF", err)
			return
		}
		writeFile(w, "application/pdf", filename+".pdf", data)
	default:
		writeError(w, http.StatusBadRequest, "Invalid format", fmt.Errorf("unknown format %q: use json, xlsx or pdf", format))
	}
}

// LatestClosedPeriod returns the newest period whose follow-up window has
// ended, i.e. the latest period that is ready for extraction.
// GET /api/periods/latest?type=month&wait=1m0d
func (h *Handler) LatestClosedPeriod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t, err := period.ParseType(q.Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period type", err)
		return
	}
	wait, err := h.waitFromValue(q.Get("wait"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid wait period", err)
		return
	}

	ep, err := period.LatestClosed(t, wait, calendar.Today(h.Clock))
	if err != nil {
		h.writePeriodError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(ep, h.Workdays))
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// CreateRun resolves the requested period and stores it as a run.
// POST /api/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}
	if strings.TrimSpace(req.Dataset) == "" {
		writeError(w, http.StatusBadRequest, "dataset is required", nil)
		return
	}

	wait, err := h.waitFromValue(req.Wait)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid wait period", err)
		return
	}
	ep, err := h.resolve(period.Input{
		Year:         req.Year,
		PeriodType:   req.PeriodType,
		PeriodNumber: req.PeriodNumber,
		WaitPeriod:   &wait,
	})
	if err != nil {
		h.writePeriodError(w, err)
		return
	}

	run, err := h.Store.SaveRun(r.Context(), strings.TrimSpace(req.Dataset), ep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save run", err)
		return
	}
	h.Logger.Info("run saved",
		zap.String("id", run.ID),
		zap.String("dataset", run.Dataset),
		zap.String("label", ep.TaggedLabel()),
		zap.String("etterslep", ep.EtterslepLabel()),
	)
	writeJSON(w, http.StatusCreated, toRunDTO(*run, h.Workdays))
}

// ListRuns returns stored runs, newest first.
// GET /api/runs?dataset=births&limit=20
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRuns(r.Context(), r.URL.Query().Get("dataset"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toRunDTOs(runs))
}

// GetRun returns one run.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run, h.Workdays))
}

// RunsByLabel returns runs for a period label. Both canonical ("p2024-03")
// and tagged ("p2024-Q1") labels are accepted.
// GET /api/runs/label/{label}
func (h *Handler) RunsByLabel(w http.ResponseWriter, r *http.Request) {
	year, t, number, err := period.ParseLabel(chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period label", err)
		return
	}

	runs, err := h.Store.FindByLabel(r.Context(), period.TaggedLabel(year, t, number))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to find runs", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toRunDTOs(runs))
}

// Health reports whether the store is reachable.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// inputFromValues converts raw query strings. Only syntax is checked here;
// period.NewEventParams does the domain validation.
func (h *Handler) inputFromValues(year, typ, number, wait string) (period.Input, error) {
	in := period.Input{PeriodType: typ}

	y, err := strconv.Atoi(year)
	if err != nil {
		return in, fmt.Errorf("year must be an integer, got %q", year)
	}
	in.Year = y

	if number != "" {
		n, err := strconv.Atoi(number)
		if err != nil {
			return in, fmt.Errorf("number must be an integer, got %q", number)
		}
		in.PeriodNumber = n
	}

	wp, err := h.waitFromValue(wait)
	if err != nil {
		return in, err
	}
	in.WaitPeriod = &wp
	return in, nil
}

func (h *Handler) waitFromValue(s string) (period.WaitPeriod, error) {
	if s == "" {
		return h.DefaultWait, nil
	}
	return period.ParseWaitPeriod(s)
}

// resolve builds EventParams and counts the outcome per period type.
func (h *Handler) resolve(in period.Input) (*period.EventParams, error) {
	ep, err := period.NewEventParams(in, period.WithClock(h.Clock))
	if err != nil {
		typeLabel := "invalid"
		if t, perr := period.ParseType(in.PeriodType); perr == nil {
			typeLabel = t.String()
		}
		periodResolutionsTotal.WithLabelValues(typeLabel, "error").Inc()
		return nil, err
	}
	periodResolutionsTotal.WithLabelValues(ep.Type().String(), "ok").Inc()
	return ep, nil
}

func (h *Handler) writePeriodError(w http.ResponseWriter, err error) {
	if period.IsClientError(err) {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}
	h.Logger.Error("period resolution failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Failed to resolve period", err)
}

func (h *Handler) toRunDTOs(runs []sqlite.Run) []RunDTO {
	dtos := make([]RunDTO, len(runs))
	for i, r := range runs {
		dtos[i] = toRunDTO(r, h.Workdays)
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
