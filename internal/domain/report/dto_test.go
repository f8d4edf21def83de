package report

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRequest_Resolve_Defaults(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	req := ReportRequest{}
	typ, filter, err := req.Resolve(today)
	require.NoError(t, err)

	assert.Equal(t, TypeMonthly, typ)
	assert.Equal(t, DateRange{Start: "2024-05-01", End: "2024-05-31"}, filter.Range)
	assert.Equal(t, "all", filter.Department)
}

func TestReportRequest_Resolve_ReferenceDate(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	req := ReportRequest{Type: "daily", Date: "2024-04-02", Department: "Sales", UserType: "Student", Status: "LATE"}
	typ, filter, err := req.Resolve(today)
	require.NoError(t, err)

	assert.Equal(t, TypeDaily, typ)
	assert.Equal(t, DateRange{Start: "2024-04-02", End: "2024-04-02"}, filter.Range)
	assert.Equal(t, "Sales", filter.Department)
	assert.Equal(t, "student", filter.UserType)
	assert.Equal(t, "late", filter.Status)
}

func TestReportRequest_Resolve_Invalid(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	req := ReportRequest{Type: "yearly", Date: "10/05/2024", UserType: "teacher", Status: "sleeping"}
	_, _, err := req.Resolve(today)
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	m := errs.ToMap()
	assert.Contains(t, m, "type")
	assert.Contains(t, m, "date")
	assert.Contains(t, m, "user_type")
	assert.Contains(t, m, "status")
}

func TestReportRequest_Resolve_CustomRange(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	req := ReportRequest{Type: "custom", StartDate: "2024-05-03", EndDate: "2024-05-01"}
	_, _, err := req.Resolve(today)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "date_range")

	req = ReportRequest{Type: "custom", StartDate: "2024-05-01"}
	_, _, err = req.Resolve(today)
	require.ErrorAs(t, err, &errs)

	req = ReportRequest{Type: "custom", StartDate: "2024-05-01", EndDate: "2024-05-03"}
	_, filter, err := req.Resolve(today)
	require.NoError(t, err)
	assert.Equal(t, DateRange{Start: "2024-05-01", End: "2024-05-03"}, filter.Range)
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"csv", "JSON", " html ", "xlsx"} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
