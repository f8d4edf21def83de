package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
)

type ReportServiceImpl struct {
	recordRepo attendance.AttendanceRepository
	userRepo   user.UserRepository
	clock      clock.Clock
	loc        *time.Location
	renderer   *renderer
}

func NewReportService(
	recordRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	clk clock.Clock,
	loc *time.Location,
) (report.ReportService, error) {
	if loc == nil {
		loc = time.Local
	}

	r, err := newRenderer(loc)
	if err != nil {
		return nil, err
	}

	return &ReportServiceImpl{
		recordRepo: recordRepo,
		userRepo:   userRepo,
		clock:      clk,
		loc:        loc,
		renderer:   r,
	}, nil
}

func (s *ReportServiceImpl) today() time.Time {
	return s.clock.Now().In(s.loc)
}

// filtered resolves req against today and returns the matching records.
func (s *ReportServiceImpl) filtered(ctx context.Context, req report.ReportRequest) (report.Type, report.Filter, []attendance.Record, error) {
	reportType, filter, err := req.Resolve(s.today())
	if err != nil {
		return "", report.Filter{}, nil, err
	}

	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return "", report.Filter{}, nil, fmt.Errorf("failed to list records: %w", err)
	}

	return reportType, filter, report.FilterRecords(records, filter), nil
}

// Summary implements report.ReportService.
func (s *ReportServiceImpl) Summary(ctx context.Context, req report.ReportRequest) (report.SummaryResponse, error) {
	reportType, filter, records, err := s.filtered(ctx, req)
	if err != nil {
		return report.SummaryResponse{}, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return report.SummaryResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	return report.SummaryResponse{
		ReportType:  reportType,
		DateRange:   filter.Range,
		Department:  filter.Department,
		Departments: user.Departments(users),
		Summary:     report.Summarize(records),
	}, nil
}

// Analytics implements report.ReportService.
func (s *ReportServiceImpl) Analytics(ctx context.Context, r report.AnalyticsRange) (report.AnalyticsResponse, error) {
	if r == "" {
		r = report.Range30Days
	}

	dateRange, err := report.ResolveAnalyticsRange(r, s.today())
	if err != nil {
		return report.AnalyticsResponse{}, validator.ValidationErrors{{
			Field:   "range",
			Message: "range must be one of: 7d, 30d, 90d",
		}}
	}

	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return report.AnalyticsResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return report.AnalyticsResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	inRange := report.FilterRecords(records, report.Filter{Range: dateRange})

	return report.AnalyticsResponse{
		Range:     r,
		DateRange: dateRange,
		Analytics: report.Aggregate(inRange, user.Departments(users)...),
	}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ReportRequest, format report.Format) (report.ExportFile, error) {
	reportType, filter, records, err := s.filtered(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	meta := exportMeta{
		GeneratedAt: s.clock.Now(),
		Type:        reportType,
		Range:       filter.Range,
		Department:  filter.Department,
	}

	var body []byte
	switch format {
	case report.FormatCSV:
		body = s.renderer.CSV(records)
	case report.FormatJSON:
		body, err = s.renderer.JSON(meta, records)
	case report.FormatHTML:
		body, err = s.renderer.HTML(meta, records)
	case report.FormatXLSX:
		body, err = s.renderer.XLSX(meta, records)
	default:
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.ExportFile{
		Filename:    "attendance-report." + string(format),
		ContentType: contentTypes[format],
		Body:        body,
	}, nil
}

var contentTypes = map[report.Format]string{
	report.FormatCSV:  "text/csv; charset=utf-8",
	report.FormatJSON: "application/json",
	report.FormatHTML: "text/html; charset=utf-8",
	report.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}
