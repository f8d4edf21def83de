package alert

import (
	"time"
)

// Type represents the kind of attendance alert
type Type string

const (
	TypeLate           Type = "late"
	TypeAbsent         Type = "absent"
	TypeOvertime       Type = "overtime"
	TypeEarlyDeparture Type = "early-departure"
)

// AllTypes returns all available alert types
func AllTypes() []Type {
	return []Type{TypeLate, TypeAbsent, TypeOvertime, TypeEarlyDeparture}
}

func (t Type) Valid() bool {
	for _, v := range AllTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Alert is a notification derived from a check-in/out classification or an absence scan.
// Read only ever moves from false to true.
type Alert struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// HasAbsenceOn reports whether alerts already hold an absent alert for userID whose
// timestamp falls on date (YYYY-MM-DD) in loc.
func HasAbsenceOn(alerts []Alert, userID, date string, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	for _, a := range alerts {
		if a.UserID != userID || a.Type != TypeAbsent {
			continue
		}
		if a.Timestamp.In(loc).Format("2006-01-02") == date {
			return true
		}
	}
	return false
}
