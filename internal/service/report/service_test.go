package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-go/internal/repository/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func seed(t *testing.T, repo attendance.AttendanceRepository, rec attendance.Record, checkOut *time.Time, duration int) {
	t.Helper()
	ctx := context.Background()

	_, created, err := repo.OpenSession(ctx, rec)
	require.NoError(t, err)
	require.True(t, created)

	if checkOut == nil {
		return
	}
	_, err = repo.Update(ctx, rec.ID, func(r *attendance.Record) error {
		r.CheckOutTime = checkOut
		r.Duration = &duration
		return nil
	})
	require.NoError(t, err)
}

func newService(t *testing.T) report.ReportService {
	t.Helper()

	store := storage.NewMemoryStorage()
	records := collection.NewAttendanceRepository(store)
	users := collection.NewUserRepository(store)

	seed(t, records, attendance.Record{
		ID: "r0", UserID: "3", UserName: "Mike Wilson", UserType: user.TypeEmployee, Department: "Sales",
		CheckInTime: at(2023, 12, 20, 9, 0), Date: "2023-12-20", Status: attendance.StatusPresent,
	}, nil, 0)

	out := at(2024, 1, 15, 18, 30)
	seed(t, records, attendance.Record{
		ID: "r1", UserID: "1", UserName: "John Smith", UserType: user.TypeEmployee, Department: "Engineering",
		CheckInTime: at(2024, 1, 15, 9, 30), Date: "2024-01-15", Status: attendance.StatusOvertime, IsLate: true,
	}, &out, 540)

	seed(t, records, attendance.Record{
		ID: "r2", UserID: "4", UserName: `Emma "EJ" Davis`, UserType: user.TypeStudent, Department: "Computer Science",
		CheckInTime: at(2024, 1, 16, 8, 50), Date: "2024-01-16", Status: attendance.StatusPresent,
	}, nil, 0)

	svc, err := NewReportService(records, users, clock.NewFixed(at(2024, 1, 17, 12, 0)), time.UTC)
	require.NoError(t, err)
	return svc
}

func TestSummary(t *testing.T) {
	svc := newService(t)

	got, err := svc.Summary(context.Background(), report.ReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, report.TypeMonthly, got.ReportType)
	assert.Equal(t, report.DateRange{Start: "2024-01-01", End: "2024-01-31"}, got.DateRange)
	assert.Equal(t, "all", got.Department)
	assert.Len(t, got.Departments, 6)
	assert.Equal(t, report.Summary{TotalRecords: 2, OnTime: 1, Late: 1, Overtime: 1}, got.Summary)

	got, err = svc.Summary(context.Background(), report.ReportRequest{Type: "daily", Date: "2024-01-15"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Summary.TotalRecords)

	_, err = svc.Summary(context.Background(), report.ReportRequest{Type: "quarterly"})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestAnalytics(t *testing.T) {
	svc := newService(t)

	got, err := svc.Analytics(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, report.Range30Days, got.Range)
	assert.Equal(t, report.DateRange{Start: "2023-12-18", End: "2024-01-17"}, got.DateRange)
	assert.Equal(t, 3, got.Analytics.OverallStats.TotalRecords)
	assert.Equal(t, 540, got.Analytics.OverallStats.AvgDuration)
	assert.Len(t, got.Analytics.DailyTrend, 3)

	got, err = svc.Analytics(context.Background(), report.Range7Days)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Analytics.OverallStats.TotalRecords)

	_, err = svc.Analytics(context.Background(), report.AnalyticsRange("1y"))
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "range")
}

func TestExportCSV(t *testing.T) {
	svc := newService(t)

	file, err := svc.Export(context.Background(), report.ReportRequest{}, report.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "attendance-report.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	want := strings.Join([]string{
		`"Date","Name","Type","Department","Check-In Time","Check-Out Time","Duration (mins)","Status","Late"`,
		`"2024-01-15","John Smith","employee","Engineering","09:30:00","18:30:00","540","overtime","Yes"`,
		`"2024-01-16","Emma ""EJ"" Davis","student","Computer Science","08:50:00","No","0","present","No"`,
	}, "\n")
	assert.Equal(t, want, string(file.Body))
}

func TestExportCSV_Filtered(t *testing.T) {
	svc := newService(t)

	file, err := svc.Export(context.Background(), report.ReportRequest{Department: "Engineering"}, report.FormatCSV)
	require.NoError(t, err)
	assert.Len(t, strings.Split(string(file.Body), "\n"), 2)

	file, err = svc.Export(context.Background(), report.ReportRequest{Type: "daily", Date: "2024-01-01"}, report.FormatCSV)
	require.NoError(t, err)
	assert.Len(t, strings.Split(string(file.Body), "\n"), 1)
}

func TestExportJSON(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	file, err := svc.Export(ctx, report.ReportRequest{Type: "weekly", Date: "2024-01-16"}, report.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)

	var got report.JSONExport
	require.NoError(t, json.Unmarshal(file.Body, &got))
	assert.Equal(t, "2024-01-17T12:00:00.000Z", got.ReportDate)
	assert.Equal(t, report.TypeWeekly, got.ReportType)
	assert.Equal(t, report.DateRange{Start: "2024-01-14", End: "2024-01-20"}, got.DateRange)
	assert.Equal(t, "all", got.Department)
	assert.Equal(t, 2, got.TotalRecords)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "r1", got.Records[0].ID)

	again, err := svc.Export(ctx, report.ReportRequest{Type: "weekly", Date: "2024-01-16"}, report.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, file.Body, again.Body)
	assert.True(t, bytes.Contains(file.Body, []byte("\n  \"reportDate\"")))
}

func TestExportJSON_EmptyRecords(t *testing.T) {
	svc := newService(t)

	file, err := svc.Export(context.Background(), report.ReportRequest{Department: "Nowhere"}, report.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(file.Body), `"records": []`)
	assert.Contains(t, string(file.Body), `"totalRecords": 0`)
}

func TestExportHTML(t *testing.T) {
	svc := newService(t)

	file, err := svc.Export(context.Background(), report.ReportRequest{}, report.FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", file.ContentType)

	body := string(file.Body)
	assert.Contains(t, body, "<strong>Total Records:</strong> 2")
	assert.Contains(t, body, "<td>John Smith</td>")
	assert.Contains(t, body, "<td>540 min</td>")
	assert.Contains(t, body, `class="late"`)
	assert.Contains(t, body, "Emma &#34;EJ&#34; Davis")
	assert.NotContains(t, body, "Mike Wilson")
}

func TestExportXLSX(t *testing.T) {
	svc := newService(t)

	file, err := svc.Export(context.Background(), report.ReportRequest{}, report.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "attendance-report.xlsx", file.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(file.Body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Attendance", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Check-In Time", rows[0][4])
	assert.Equal(t, "John Smith", rows[1][1])
	assert.Equal(t, "540", rows[1][6])
	assert.Equal(t, "No", rows[2][5])

	total, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestExport_Errors(t *testing.T) {
	svc := newService(t)

	_, err := svc.Export(context.Background(), report.ReportRequest{}, report.Format("pdf"))
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)

	_, err = svc.Export(context.Background(), report.ReportRequest{Type: "custom"}, report.FormatCSV)
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}
