package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
)

type Status string

const (
	StatusPresent        Status = "present"
	StatusLate           Status = "late"
	StatusOvertime       Status = "overtime"
	StatusEarlyDeparture Status = "early-departure"
	StatusAbsent         Status = "absent"
)

// AllStatuses lists statuses in reporting order.
func AllStatuses() []Status {
	return []Status{StatusPresent, StatusLate, StatusOvertime, StatusEarlyDeparture, StatusAbsent}
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Record is one check-in/check-out session. UserName, UserType and Department are a
// snapshot taken at check-in and are not re-synced with the roster.
type Record struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	UserName         string     `json:"userName"`
	UserType         user.Type  `json:"userType"`
	Department       string     `json:"department"`
	CheckInTime      time.Time  `json:"checkInTime"`
	CheckInLocation  *Location  `json:"checkInLocation,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime"`
	CheckOutLocation *Location  `json:"checkOutLocation,omitempty"`
	Date             string     `json:"date"`
	Status           Status     `json:"status"`
	IsLate           bool       `json:"isLate"`
	Duration         *int       `json:"duration,omitempty"`
}

// IsOpen reports whether the session has not been checked out yet.
func (r *Record) IsOpen() bool {
	return r.CheckOutTime == nil
}

// DurationMinutes returns the stored duration, 0 while the session is open.
func (r *Record) DurationMinutes() int {
	if r.Duration == nil {
		return 0
	}
	return *r.Duration
}

// Settings are the work-hour thresholds. They are loaded once at start-up.
type Settings struct {
	WorkStartTime     string
	WorkEndTime       string
	LateThreshold     int     // minutes
	OvertimeThreshold float64 // hours past WorkEndTime

	// ApplyLateThreshold turns LateThreshold into a grace window for the late decision.
	// Off by default: lateness is a strict comparison against WorkStartTime.
	ApplyLateThreshold bool

	Location *time.Location
}

func DefaultSettings() Settings {
	return Settings{
		WorkStartTime:     "11:30",
		WorkEndTime:       "17:00",
		LateThreshold:     15,
		OvertimeThreshold: 1,
		Location:          time.Local,
	}
}

func (s Settings) loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// In converts t to the settings' time zone.
func (s Settings) In(t time.Time) time.Time {
	return t.In(s.loc())
}
