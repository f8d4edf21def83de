package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	userRepo     user.UserRepository
	alertRepo    alert.Repository
	alertService alert.Service
	settings     attendance.Settings
	clock        clock.Clock
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	alertRepo alert.Repository,
	alertService alert.Service,
	settings attendance.Settings,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		userRepo:             userRepo,
		alertRepo:            alertRepo,
		alertService:         alertService,
		settings:             settings,
		clock:                clk,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to get user: %w", err)
	}

	now := s.settings.In(s.clock.Now())
	outcome := s.settings.ClassifyCheckIn(now)

	rec := attendance.Record{
		ID:              newID(),
		UserID:          u.ID,
		UserName:        u.Name,
		UserType:        u.Type,
		Department:      u.Department,
		CheckInTime:     now,
		CheckInLocation: req.Location(),
		Date:            clock.FormatDate(now),
		Status:          outcome.Status,
		IsLate:          outcome.IsLate,
	}

	stored, created, err := s.AttendanceRepository.OpenSession(ctx, rec)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to open attendance session: %w", err)
	}
	if !created {
		return stored, nil
	}

	slog.Info("checked in", "user_id", u.ID, "record_id", stored.ID, "status", stored.Status)

	if outcome.IsLate {
		s.raise(ctx, u.ID, alert.TypeLate, fmt.Sprintf("Marked as late at %s", clock.FormatTime(now)))
	}

	return stored, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	now := s.settings.In(s.clock.Now())

	recordID := req.RecordID
	if recordID == "" {
		open, err := s.AttendanceRepository.GetOpenSession(ctx, req.UserID, clock.FormatDate(now))
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to get open session: %w", err)
		}
		if open == nil {
			return attendance.Record{}, attendance.ErrNoOpenSession
		}
		recordID = open.ID
	}

	var outcome attendance.CheckOutOutcome
	updated, err := s.AttendanceRepository.Update(ctx, recordID, func(rec *attendance.Record) error {
		// Another user's record is reported the same as a missing one.
		if rec.UserID != req.UserID {
			return attendance.ErrRecordNotFound
		}
		if !rec.IsOpen() {
			return attendance.ErrAlreadyCheckedOut
		}

		outcome = s.settings.ClassifyCheckOut(rec.CheckInTime, now)
		duration := outcome.Duration

		rec.CheckOutTime = &now
		rec.CheckOutLocation = req.Location()
		rec.Duration = &duration
		rec.Status = rec.Status.Next(outcome.Result)
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) || errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to check out: %w", err)
	}

	slog.Info("checked out", "user_id", req.UserID, "record_id", updated.ID, "status", updated.Status, "duration", outcome.Duration)

	if outcome.Result == attendance.CheckOutEarlyDeparture {
		s.raise(ctx, req.UserID, alert.TypeEarlyDeparture, fmt.Sprintf("Left early at %s", clock.FormatTime(now)))
	}

	return updated, nil
}

// raise records an alert. The check-in/out has already been stored, so a failure here
// is logged rather than returned.
func (s *AttendanceServiceImpl) raise(ctx context.Context, userID string, t alert.Type, message string) {
	if _, err := s.alertService.CreateAlert(ctx, userID, t, message); err != nil {
		slog.Error("failed to create alert", "user_id", userID, "type", t, "error", err)
	}
}

// GetRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetRecords(ctx context.Context) ([]attendance.Record, error) {
	records, err := s.AttendanceRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// GetUserRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetUserRecords(ctx context.Context, userID string) ([]attendance.Record, error) {
	records, err := s.AttendanceRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for user: %w", err)
	}
	return records, nil
}

// GetTodaySession implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodaySession(ctx context.Context, userID string) (*attendance.Record, error) {
	today := clock.FormatDate(s.settings.In(s.clock.Now()))
	rec, err := s.AttendanceRepository.GetOpenSession(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's session: %w", err)
	}
	return rec, nil
}

// DeleteRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// ClearAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClearAll(ctx context.Context) error {
	if err := s.AttendanceRepository.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	if err := s.alertRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}
	if err := s.userRepo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset users: %w", err)
	}

	slog.Warn("all attendance data cleared, default roster restored")
	return nil
}

// Settings implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Settings() attendance.Settings {
	return s.settings
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
