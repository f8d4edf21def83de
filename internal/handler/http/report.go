package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-go/internal/handler/http/response"
)

type ReportHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// reportRequestFromQuery reads the shared report filter parameters.
func reportRequestFromQuery(r *http.Request) report.ReportRequest {
	q := r.URL.Query()
	return report.ReportRequest{
		Type:       q.Get("type"),
		Date:       q.Get("date"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		Department: q.Get("department"),
		UserType:   q.Get("user_type"),
		Status:     q.Get("status"),
	}
}

// Summary implements ReportHandler.
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Summary(r.Context(), reportRequestFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Analytics implements ReportHandler.
func (h *reportHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Analytics(r.Context(), report.AnalyticsRange(r.URL.Query().Get("range")))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(report.FormatCSV)
	}

	format, err := report.ParseFormat(raw)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.Export(r.Context(), reportRequestFromQuery(r), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Body)
}
