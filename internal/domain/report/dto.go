package report

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
)

// ========================================
// REPORT REQUEST
// ========================================

type ReportRequest struct {
	Type       string `json:"type"`
	Date       string `json:"date,omitempty"`       // YYYY-MM-DD, default today
	StartDate  string `json:"start_date,omitempty"` // custom only
	EndDate    string `json:"end_date,omitempty"`   // custom only
	Department string `json:"department,omitempty"`
	UserType   string `json:"user_type,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Resolve validates the request and turns it into a filter. today supplies the
// reference date when Date is empty.
func (r *ReportRequest) Resolve(today time.Time) (Type, Filter, error) {
	var errs validator.ValidationErrors

	reportType, err := ParseType(r.Type)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: daily, weekly, monthly, custom",
		})
	}

	ref := today
	if r.Date != "" {
		d, err := clock.ParseDate(r.Date, today.Location())
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		} else {
			ref = d
		}
	}

	for _, bound := range []struct{ field, value string }{
		{"start_date", r.StartDate},
		{"end_date", r.EndDate},
	} {
		if bound.value == "" {
			continue
		}
		if _, ok := validator.IsValidDate(bound.value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   bound.field,
				Message: bound.field + " must be in YYYY-MM-DD format",
			})
		}
	}

	r.UserType = strings.ToLower(strings.TrimSpace(r.UserType))
	if !wildcard(r.UserType) && !validator.IsInSlice(r.UserType, []string{string(user.TypeEmployee), string(user.TypeStudent)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_type",
			Message: "user_type must be one of: all, employee, student",
		})
	}

	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if !wildcard(r.Status) {
		valid := make([]string, 0, len(attendance.AllStatuses()))
		for _, s := range attendance.AllStatuses() {
			valid = append(valid, string(s))
		}
		if !validator.IsInSlice(r.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: all, " + strings.Join(valid, ", "),
			})
		}
	}

	if len(errs) > 0 {
		return "", Filter{}, errs
	}

	dateRange, err := ResolveDateRange(reportType, ref, DateRange{Start: r.StartDate, End: r.EndDate})
	if err != nil {
		return "", Filter{}, validator.ValidationErrors{{Field: "date_range", Message: err.Error()}}
	}

	department := strings.TrimSpace(r.Department)
	if department == "" {
		department = all
	}

	return reportType, Filter{
		Range:      dateRange,
		Department: department,
		UserType:   r.UserType,
		Status:     r.Status,
	}, nil
}

// ========================================
// EXPORT
// ========================================

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatHTML, FormatXLSX:
		return f, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ExportFile is a rendered export ready to be written to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// JSONExport is the envelope of the JSON export.
type JSONExport struct {
	ReportDate   string              `json:"reportDate"`
	ReportType   Type                `json:"reportType"`
	DateRange    DateRange           `json:"dateRange"`
	Department   string              `json:"department"`
	TotalRecords int                 `json:"totalRecords"`
	Records      []attendance.Record `json:"records"`
}

// ========================================
// RESPONSES
// ========================================

type SummaryResponse struct {
	ReportType  Type      `json:"report_type"`
	DateRange   DateRange `json:"date_range"`
	Department  string    `json:"department"`
	Departments []string  `json:"departments"`
	Summary     Summary   `json:"summary"`
}

type AnalyticsResponse struct {
	Range     AnalyticsRange `json:"range"`
	DateRange DateRange      `json:"date_range"`
	Analytics Analytics      `json:"analytics"`
}
