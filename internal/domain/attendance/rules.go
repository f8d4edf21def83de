package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
)

// CheckOutResult is the check-out half of the status state machine.
type CheckOutResult string

const (
	CheckOutUnchanged      CheckOutResult = "unchanged"
	CheckOutOvertime       CheckOutResult = "overtime"
	CheckOutEarlyDeparture CheckOutResult = "early-departure"
)

type CheckInOutcome struct {
	IsLate bool
	Status Status
}

type CheckOutOutcome struct {
	Duration int
	Result   CheckOutResult
}

// Next returns the status a record moves to after check-out. Only present and late are
// valid check-in states; anything else is returned untouched.
func (s Status) Next(r CheckOutResult) Status {
	if s != StatusPresent && s != StatusLate {
		return s
	}
	switch r {
	case CheckOutOvertime:
		return StatusOvertime
	case CheckOutEarlyDeparture:
		return StatusEarlyDeparture
	default:
		return s
	}
}

// ClassifyCheckIn marks now as late when it is strictly after workStartTime on now's
// calendar day. A malformed workStartTime classifies as present.
func ClassifyCheckIn(now time.Time, workStartTime string) CheckInOutcome {
	return classifyCheckIn(now, workStartTime, 0)
}

func classifyCheckIn(now time.Time, workStartTime string, grace time.Duration) CheckInOutcome {
	workStart, err := clock.At(now, workStartTime)
	if err != nil {
		return CheckInOutcome{IsLate: false, Status: StatusPresent}
	}

	if now.After(workStart.Add(grace)) {
		return CheckInOutcome{IsLate: true, Status: StatusLate}
	}
	return CheckInOutcome{IsLate: false, Status: StatusPresent}
}

// ClassifyCheckOut computes the rounded session length and which of the three
// mutually exclusive check-out branches applies, evaluated in order: overtime,
// early departure, unchanged. Duration is clamped to 0 when checkOut precedes checkIn.
func ClassifyCheckOut(checkIn, checkOut time.Time, workEndTime string, overtimeThresholdHours float64) CheckOutOutcome {
	duration := clock.RoundedMinutes(checkIn, checkOut)
	if duration < 0 {
		duration = 0
	}

	out := CheckOutOutcome{Duration: duration, Result: CheckOutUnchanged}

	workEnd, err := clock.At(checkOut, workEndTime)
	if err != nil {
		return out
	}

	switch {
	case checkOut.After(workEnd):
		if checkOut.Sub(workEnd).Hours() >= overtimeThresholdHours {
			out.Result = CheckOutOvertime
		}
	case checkOut.Before(workEnd):
		out.Result = CheckOutEarlyDeparture
	}
	return out
}

// ClassifyCheckIn applies the settings, including the optional grace window.
func (s Settings) ClassifyCheckIn(now time.Time) CheckInOutcome {
	var grace time.Duration
	if s.ApplyLateThreshold && s.LateThreshold > 0 {
		grace = time.Duration(s.LateThreshold) * time.Minute
	}
	return classifyCheckIn(s.In(now), s.WorkStartTime, grace)
}

func (s Settings) ClassifyCheckOut(checkIn, checkOut time.Time) CheckOutOutcome {
	return ClassifyCheckOut(s.In(checkIn), s.In(checkOut), s.WorkEndTime, s.OvertimeThreshold)
}

// WorkEndOn returns the configured end of work on t's calendar day.
func (s Settings) WorkEndOn(t time.Time) (time.Time, error) {
	return clock.At(s.In(t), s.WorkEndTime)
}
