package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
)

const absenceScanJob = "absence_scan"

// AttendanceJobs holds the periodic attendance jobs.
type AttendanceJobs struct {
	alertService alert.Service
	settings     attendance.Settings
	clock        clock.Clock

	mu          sync.Mutex
	lastScanned string
}

func NewAttendanceJobs(alertService alert.Service, settings attendance.Settings, clk clock.Clock) *AttendanceJobs {
	return &AttendanceJobs{
		alertService: alertService,
		settings:     settings,
		clock:        clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, scanInterval time.Duration) {
	scheduler.AddJob(absenceScanJob, scanInterval, j.ScanAbsences)
}

// ScanAbsences runs the absence scan once per day, on the first tick after work ends.
func (j *AttendanceJobs) ScanAbsences(ctx context.Context) error {
	now := j.settings.In(j.clock.Now())

	workEnd, err := j.settings.WorkEndOn(now)
	if err != nil {
		return fmt.Errorf("failed to resolve work end: %w", err)
	}
	if now.Before(workEnd) {
		return nil
	}

	today := clock.FormatDate(now)
	j.mu.Lock()
	done := j.lastScanned == today
	j.mu.Unlock()
	if done {
		return nil
	}

	slog.Info("Cron: Starting absence scan job", "date", today)

	result, err := j.alertService.ScanAbsences(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan absences: %w", err)
	}

	j.mu.Lock()
	j.lastScanned = today
	j.mu.Unlock()

	slog.Info("Cron: Absence scan completed", "date", result.Date, "created", result.Created)
	return nil
}
