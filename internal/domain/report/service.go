package report

import (
	"context"
)

type ReportService interface {
	// Summary returns the report summary block for the filtered records.
	Summary(ctx context.Context, req ReportRequest) (SummaryResponse, error)

	// Analytics aggregates records over a trailing 7d/30d/90d window.
	Analytics(ctx context.Context, r AnalyticsRange) (AnalyticsResponse, error)

	// Export renders the filtered records in the requested format.
	Export(ctx context.Context, req ReportRequest, format Format) (ExportFile, error)
}
