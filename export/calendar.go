// Package export renders period calendars as spreadsheet and PDF documents
// for the people who schedule extraction jobs.
package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/warp/period-engine/period"
)

// ErrEmptyCalendar is returned when there is nothing to render.
var ErrEmptyCalendar = errors.New("export: no periods to render")

// CalendarSheet is the name of the single XLSX sheet.
const CalendarSheet = "calendar"

// Columns shared by both renderers, in order.
var calendarColumns = []string{
	"Label", "Tagged", "Start", "End", "Etterslep start", "Etterslep end", "Wait", "Days",
}

func calendarRow(ep *period.EventParams) []any {
	q := ep.ToQueryParams()
	return []any{
		ep.PeriodLabel(),
		ep.TaggedLabel(),
		q.StartDate.String(),
		q.EndDate.String(),
		q.EtterslepStart.String(),
		q.EtterslepEnd.String(),
		ep.EtterslepLabel(),
		ep.Window().Days(),
	}
}

// BuildCalendarXLSX renders one row per period with its primary and
// follow-up windows.
func BuildCalendarXLSX(eps []*period.EventParams) ([]byte, error) {
	if len(eps) == 0 {
		return nil, ErrEmptyCalendar
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", CalendarSheet); err != nil {
		return nil, err
	}

	for col, title := range calendarColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(CalendarSheet, cell, title)
	}
	for i, ep := range eps {
		row := i + 2
		for col, v := range calendarRow(ep) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(CalendarSheet, cell, v)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(calendarColumns))
	_ = f.SetColWidth(CalendarSheet, "A", lastCol, 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildCalendarPDF renders the same table as BuildCalendarXLSX on A4
// landscape.
func BuildCalendarPDF(title string, eps []*period.EventParams) ([]byte, error) {
	if len(eps) == 0 {
		return nil, ErrEmptyCalendar
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	widths := []float64{30, 30, 32, 32, 36, 36, 22, 18}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range calendarColumns {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, ep := range eps {
		for i, v := range calendarRow(ep) {
			align := "C"
			if _, ok := v.(int); ok {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, fmt.Sprint(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
