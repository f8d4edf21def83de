package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, 1, 15, h, m, s, 0, time.UTC)
}

func TestClassifyCheckIn(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		start  string
		isLate bool
		status Status
	}{
		{"before start", at(11, 0, 0), "11:30", false, StatusPresent},
		{"exactly at start", at(11, 30, 0), "11:30", false, StatusPresent},
		{"one second after start", at(11, 30, 1), "11:30", true, StatusLate},
		{"well after start", at(11, 45, 0), "11:30", true, StatusLate},
		{"malformed start time", at(13, 0, 0), "half past eleven", false, StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyCheckIn(tt.now, tt.start)
			assert.Equal(t, tt.isLate, got.IsLate)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestClassifyCheckOut(t *testing.T) {
	tests := []struct {
		name      string
		checkIn   time.Time
		checkOut  time.Time
		end       string
		threshold float64
		duration  int
		result    CheckOutResult
	}{
		{"overtime past threshold", at(9, 0, 0), at(18, 30, 0), "17:00", 1, 570, CheckOutOvertime},
		{"overtime exactly at threshold", at(9, 0, 0), at(18, 0, 0), "17:00", 1, 540, CheckOutOvertime},
		{"after end but under threshold", at(9, 0, 0), at(17, 30, 0), "17:00", 1, 510, CheckOutUnchanged},
		{"exactly at end", at(9, 0, 0), at(17, 0, 0), "17:00", 1, 480, CheckOutUnchanged},
		{"early departure", at(9, 0, 0), at(16, 0, 0), "17:00", 1, 420, CheckOutEarlyDeparture},
		{"malformed end time", at(9, 0, 0), at(12, 0, 0), "5pm", 1, 180, CheckOutUnchanged},
		{"check-out before check-in clamps duration", at(12, 0, 0), at(11, 0, 0), "17:00", 1, 0, CheckOutEarlyDeparture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyCheckOut(tt.checkIn, tt.checkOut, tt.end, tt.threshold)
			assert.Equal(t, tt.duration, got.Duration)
			assert.Equal(t, tt.result, got.Result)
		})
	}
}

func TestClassifyCheckOut_RoundsDuration(t *testing.T) {
	got := ClassifyCheckOut(at(9, 0, 0), at(9, 10, 30), "17:00", 1)
	assert.Equal(t, 11, got.Duration)

	got = ClassifyCheckOut(at(9, 0, 0), at(9, 10, 29), "17:00", 1)
	assert.Equal(t, 10, got.Duration)
}

func TestStatus_Next(t *testing.T) {
	tests := []struct {
		from   Status
		result CheckOutResult
		want   Status
	}{
		{StatusPresent, CheckOutUnchanged, StatusPresent},
		{StatusPresent, CheckOutOvertime, StatusOvertime},
		{StatusPresent, CheckOutEarlyDeparture, StatusEarlyDeparture},
		{StatusLate, CheckOutUnchanged, StatusLate},
		{StatusLate, CheckOutOvertime, StatusOvertime},
		{StatusLate, CheckOutEarlyDeparture, StatusEarlyDeparture},
		{StatusOvertime, CheckOutEarlyDeparture, StatusOvertime},
		{StatusAbsent, CheckOutOvertime, StatusAbsent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.Next(tt.result), "%s + %s", tt.from, tt.result)
	}
}

func TestSettings_ClassifyCheckIn_GraceWindow(t *testing.T) {
	s := DefaultSettings()
	s.Location = time.UTC

	// Strict by default.
	assert.True(t, s.ClassifyCheckIn(at(11, 40, 0)).IsLate)

	s.ApplyLateThreshold = true
	assert.False(t, s.ClassifyCheckIn(at(11, 40, 0)).IsLate)
	assert.False(t, s.ClassifyCheckIn(at(11, 45, 0)).IsLate)
	assert.True(t, s.ClassifyCheckIn(at(11, 45, 1)).IsLate)
}

func TestSettings_UsesConfiguredZone(t *testing.T) {
	jakarta := time.FixedZone("UTC+7", 7*3600)
	s := DefaultSettings()
	s.Location = jakarta

	// 04:45 UTC is 11:45 in UTC+7.
	got := s.ClassifyCheckIn(time.Date(2024, 1, 15, 4, 45, 0, 0, time.UTC))
	assert.True(t, got.IsLate)
	assert.Equal(t, StatusLate, got.Status)

	end, err := s.WorkEndOn(time.Date(2024, 1, 15, 4, 45, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 15, 17, 0, 0, 0, jakarta).Equal(end))
}
