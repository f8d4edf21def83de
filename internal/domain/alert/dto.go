package alert

import (
	"strings"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
)

type AlertFilter struct {
	UserID     string `json:"user_id,omitempty"`
	Type       string `json:"type,omitempty"`
	UnreadOnly bool   `json:"unread_only,omitempty"`
}

func (f *AlertFilter) Validate() error {
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Type == "all" {
		f.Type = ""
	}
	if f.Type != "" && !Type(f.Type).Valid() {
		return validator.ValidationErrors{{
			Field:   "type",
			Message: "type must be one of: all, late, absent, overtime, early-departure",
		}}
	}
	return nil
}

// Matches reports whether a passes the filter.
func (f AlertFilter) Matches(a Alert) bool {
	if f.UserID != "" && a.UserID != f.UserID {
		return false
	}
	if f.Type != "" && string(a.Type) != f.Type {
		return false
	}
	if f.UnreadOnly && a.Read {
		return false
	}
	return true
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Marked int `json:"marked"`
}

type AbsenceScanResponse struct {
	Date    string  `json:"date"`
	Created int     `json:"created"`
	Alerts  []Alert `json:"alerts"`
}
