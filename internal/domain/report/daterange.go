package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
)

type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
	TypeCustom  Type = "custom"
)

func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeDaily, TypeWeekly, TypeMonthly, TypeCustom:
		return t, nil
	case "":
		return TypeMonthly, nil
	default:
		return "", fmt.Errorf("unknown report type %q", s)
	}
}

// DateRange is an inclusive range of YYYY-MM-DD days.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date lies within the range, bounds included. YYYY-MM-DD
// strings order the same way as the days they name.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// ResolveDateRange returns the days covered by a report of type t around ref.
// Weeks run Sunday to Saturday. custom is passed through for TypeCustom.
func ResolveDateRange(t Type, ref time.Time, custom DateRange) (DateRange, error) {
	switch t {
	case TypeDaily:
		d := clock.FormatDate(ref)
		return DateRange{Start: d, End: d}, nil
	case TypeWeekly:
		start := clock.StartOfWeek(ref)
		return DateRange{
			Start: clock.FormatDate(start),
			End:   clock.FormatDate(start.AddDate(0, 0, 6)),
		}, nil
	case TypeMonthly:
		return DateRange{
			Start: clock.FormatDate(clock.StartOfMonth(ref)),
			End:   clock.FormatDate(clock.EndOfMonth(ref)),
		}, nil
	case TypeCustom:
		if custom.Start == "" || custom.End == "" {
			return DateRange{}, fmt.Errorf("custom report requires start and end dates")
		}
		if custom.Start > custom.End {
			return DateRange{}, fmt.Errorf("start date %s is after end date %s", custom.Start, custom.End)
		}
		return custom, nil
	default:
		return DateRange{}, fmt.Errorf("unknown report type %q", t)
	}
}

// AnalyticsRange is a trailing window ending today.
type AnalyticsRange string

const (
	Range7Days  AnalyticsRange = "7d"
	Range30Days AnalyticsRange = "30d"
	Range90Days AnalyticsRange = "90d"
)

func (r AnalyticsRange) Days() (int, bool) {
	switch r {
	case Range7Days:
		return 7, true
	case Range30Days:
		return 30, true
	case Range90Days:
		return 90, true
	}
	return 0, false
}

// ResolveAnalyticsRange covers today minus N days through today.
func ResolveAnalyticsRange(r AnalyticsRange, today time.Time) (DateRange, error) {
	days, ok := r.Days()
	if !ok {
		return DateRange{}, fmt.Errorf("unknown analytics range %q", r)
	}
	return DateRange{
		Start: clock.FormatDate(today.AddDate(0, 0, -days)),
		End:   clock.FormatDate(today),
	}, nil
}
