package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

type AlertHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	AbsenceScan(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type alertHandlerImpl struct {
	alertService alert.Service
	keepalive    time.Duration
}

func NewAlertHandler(alertService alert.Service) AlertHandler {
	return &alertHandlerImpl{
		alertService: alertService,
		keepalive:    30 * time.Second,
	}
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	boolVal, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return boolVal
}

// List implements AlertHandler.
func (h *alertHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := alert.AlertFilter{
		UserID:     r.URL.Query().Get("user_id"),
		Type:       r.URL.Query().Get("type"),
		UnreadOnly: getBoolQueryParam(r, "unread_only", false),
	}

	alerts, err := h.alertService.GetAlerts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	unread := 0
	for _, a := range alerts {
		if !a.Read {
			unread++
		}
	}

	response.SuccessWithMeta(w, alerts, &response.Meta{Total: len(alerts), Unread: unread})
}

// UnreadCount implements AlertHandler.
func (h *alertHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.alertService.UnreadCount(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, alert.UnreadCountResponse{UnreadCount: count})
}

// MarkRead implements AlertHandler.
func (h *alertHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.alertService.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Alert marked as read", nil)
}

// MarkAllRead implements AlertHandler.
func (h *alertHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	marked, err := h.alertService.MarkAllRead(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Alerts marked as read", alert.MarkAllReadResponse{Marked: marked})
}

// AbsenceScan implements AlertHandler.
func (h *alertHandlerImpl) AbsenceScan(w http.ResponseWriter, r *http.Request) {
	result, err := h.alertService.ScanAbsences(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("%d absence alert(s) created", result.Created), result)
}

// Stream handles SSE connection for real-time alerts
func (h *alertHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.alertService.Subscribe(userID)
	defer cleanup()

	// Send initial connection event
	if err := sse.WriteEvent(w, "connected", map[string]string{"status": "connected", "user_id": userID}); err != nil {
		return
	}
	flusher.Flush()

	// Stream events
	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case a, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(w, "alert", a); err != nil {
				slog.Debug("SSE write failed", "user_id", userID, "error", err)
				return
			}
			flusher.Flush()
		case <-keepalive.C:
			if err := sse.WriteComment(w, "keepalive"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
