package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/xuri/excelize/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	sheetRecords = "Attendance"
	sheetSummary = "Summary"

	// reportDateLayout matches an ISO-8601 UTC timestamp with milliseconds.
	reportDateLayout = "2006-01-02T15:04:05.000Z07:00"
)

var csvHeader = []string{
	"Date",
	"Name",
	"Type",
	"Department",
	"Check-In Time",
	"Check-Out Time",
	"Duration (mins)",
	"Status",
	"Late",
}

type exportMeta struct {
	GeneratedAt time.Time
	Type        report.Type
	Range       report.DateRange
	Department  string
}

// renderer turns filtered records into export bodies. Times are shown in loc.
type renderer struct {
	loc       *time.Location
	templates *template.Template
}

func newRenderer(loc *time.Location) (*renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report templates: %w", err)
	}
	return &renderer{loc: loc, templates: tmpl}, nil
}

// row returns the export columns of one record, in csvHeader order.
func (r *renderer) row(rec attendance.Record) []string {
	checkOut := "No"
	if rec.CheckOutTime != nil {
		checkOut = clock.FormatTime(rec.CheckOutTime.In(r.loc))
	}
	late := "No"
	if rec.IsLate {
		late = "Yes"
	}
	return []string{
		rec.Date,
		rec.UserName,
		string(rec.UserType),
		rec.Department,
		clock.FormatTime(rec.CheckInTime.In(r.loc)),
		checkOut,
		strconv.Itoa(rec.DurationMinutes()),
		string(rec.Status),
		late,
	}
}

// CSV quotes every field and doubles embedded quotes. Rows are joined by "\n" with no
// trailing newline.
func (r *renderer) CSV(records []attendance.Record) []byte {
	var b strings.Builder
	writeLine := func(cols []string) {
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(c, `"`, `""`))
			b.WriteByte('"')
		}
	}

	writeLine(csvHeader)
	for _, rec := range records {
		b.WriteByte('\n')
		writeLine(r.row(rec))
	}
	return []byte(b.String())
}

func (r *renderer) JSON(meta exportMeta, records []attendance.Record) ([]byte, error) {
	if records == nil {
		records = []attendance.Record{}
	}
	return json.MarshalIndent(report.JSONExport{
		ReportDate:   meta.GeneratedAt.UTC().Format(reportDateLayout),
		ReportType:   meta.Type,
		DateRange:    meta.Range,
		Department:   meta.Department,
		TotalRecords: len(records),
		Records:      records,
	}, "", "  ")
}

type htmlRow struct {
	Date       string
	Name       string
	Department string
	CheckIn    string
	CheckOut   string
	Duration   int
	Status     string
	IsLate     bool
}

type htmlData struct {
	Type         report.Type
	Start        string
	End          string
	Department   string
	TotalRecords int
	Rows         []htmlRow
}

// HTML renders the printable report.
func (r *renderer) HTML(meta exportMeta, records []attendance.Record) ([]byte, error) {
	data := htmlData{
		Type:         meta.Type,
		Start:        meta.Range.Start,
		End:          meta.Range.End,
		Department:   meta.Department,
		TotalRecords: len(records),
		Rows:         make([]htmlRow, 0, len(records)),
	}
	for _, rec := range records {
		cols := r.row(rec)
		data.Rows = append(data.Rows, htmlRow{
			Date:       rec.Date,
			Name:       rec.UserName,
			Department: rec.Department,
			CheckIn:    cols[4],
			CheckOut:   cols[5],
			Duration:   rec.DurationMinutes(),
			Status:     string(rec.Status),
			IsLate:     rec.IsLate,
		})
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "report.html", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX writes the records sheet with the CSV columns plus a summary sheet.
func (r *renderer) XLSX(meta exportMeta, records []attendance.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRecords); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetRecords, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(csvHeader))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetRecords, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}

	for i, rec := range records {
		cols := r.row(rec)
		values := make([]interface{}, len(cols))
		for j, c := range cols {
			values[j] = c
		}
		// Duration is numeric in the spreadsheet.
		values[6] = rec.DurationMinutes()

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetRecords, cell, &values); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, err
	}
	summary := report.Summarize(records)
	summaryRows := [][]interface{}{
		{"Report Type", string(meta.Type)},
		{"Date Range", meta.Range.Start + " to " + meta.Range.End},
		{"Department", meta.Department},
		{"Total Records", summary.TotalRecords},
		{"On Time", summary.OnTime},
		{"Late", summary.Late},
		{"Overtime", summary.Overtime},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
