package alert

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Config holds alert delivery configuration
type Config struct {
	WorkerCount     int           // default: 2
	QueueSize       int           // default: 256
	DeliveryTimeout time.Duration // default: 30 seconds
}

type service struct {
	repo       alert.Repository
	userRepo   user.UserRepository
	recordRepo attendance.AttendanceRepository
	hub        *sse.Hub[alert.Alert]
	notifiers  []alert.Notifier
	clock      clock.Clock
	loc        *time.Location
	config     Config

	queue    chan alert.Alert
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewAlertService creates the alert generator and starts its delivery workers. Every
// created alert is published on hub and handed to each notifier.
func NewAlertService(
	repo alert.Repository,
	userRepo user.UserRepository,
	recordRepo attendance.AttendanceRepository,
	hub *sse.Hub[alert.Alert],
	clk clock.Clock,
	loc *time.Location,
	cfg Config,
	notifiers ...alert.Notifier,
) alert.Service {
	// Set defaults
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}
	if cfg.DeliveryTimeout == 0 {
		cfg.DeliveryTimeout = 30 * time.Second
	}
	if loc == nil {
		loc = time.Local
	}

	s := &service{
		repo:       repo,
		userRepo:   userRepo,
		recordRepo: recordRepo,
		hub:        hub,
		notifiers:  append([]alert.Notifier{hubNotifier{hub: hub}}, notifiers...),
		clock:      clk,
		loc:        loc,
		config:     cfg,
		queue:      make(chan alert.Alert, cfg.QueueSize),
		stopCh:     make(chan struct{}),
	}

	// Start background workers
	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("alert service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "notifiers", len(s.notifiers))

	return s
}

// worker delivers queued alerts to every notifier
func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case a := <-s.queue:
			s.deliver(id, a)
		case <-s.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case a := <-s.queue:
					s.deliver(id, a)
				default:
					return
				}
			}
		}
	}
}

func (s *service) deliver(workerID int, a alert.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.DeliveryTimeout)
	defer cancel()

	for _, n := range s.notifiers {
		if err := n.Notify(ctx, a); err != nil {
			slog.Error("alert delivery failed",
				"worker", workerID,
				"alert_id", a.ID,
				"user_id", a.UserID,
				"notifier", fmt.Sprintf("%T", n),
				"error", err,
			)
		}
	}
}

// dispatch queues a for delivery. A full queue drops the delivery; the alert itself is
// already stored.
func (s *service) dispatch(a alert.Alert) {
	select {
	case s.queue <- a:
	default:
		slog.Warn("alert delivery dropped", "alert_id", a.ID, "error", alert.ErrQueueFull)
	}
}

// Stop implements alert.Service.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

// CreateAlert implements alert.Service.
func (s *service) CreateAlert(ctx context.Context, userID string, t alert.Type, message string) (alert.Alert, error) {
	if !t.Valid() {
		return alert.Alert{}, alert.ErrInvalidAlertType
	}

	a := alert.Alert{
		ID:        newID(),
		UserID:    userID,
		Type:      t,
		Message:   message,
		Timestamp: s.clock.Now(),
		Read:      false,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return alert.Alert{}, fmt.Errorf("failed to create alert: %w", err)
	}

	s.dispatch(a)
	return a, nil
}

// GenerateAbsenceAlerts implements alert.Service.
func (s *service) GenerateAbsenceAlerts(ctx context.Context, users []user.User, records []attendance.Record, today string) ([]alert.Alert, error) {
	checkedIn := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.Date == today {
			checkedIn[rec.UserID] = struct{}{}
		}
	}

	stamp, err := s.stampOn(today)
	if err != nil {
		return nil, err
	}
	candidates := make([]alert.Alert, 0, len(users))
	for _, u := range users {
		if _, ok := checkedIn[u.ID]; ok {
			continue
		}
		candidates = append(candidates, alert.Alert{
			ID:        newID(),
			UserID:    u.ID,
			Type:      alert.TypeAbsent,
			Message:   fmt.Sprintf("%s did not check in today", u.Name),
			Timestamp: stamp,
		})
	}

	if len(candidates) == 0 {
		return []alert.Alert{}, nil
	}

	created, err := s.repo.CreateAbsences(ctx, candidates, today, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create absence alerts: %w", err)
	}

	for _, a := range created {
		s.dispatch(a)
	}
	if created == nil {
		created = []alert.Alert{}
	}
	return created, nil
}

// stampOn returns the current wall time moved onto date, so the dedup check for date
// finds the alerts stamped here.
func (s *service) stampOn(date string) (time.Time, error) {
	now := s.clock.Now().In(s.loc)
	if clock.FormatDate(now) == date {
		return now, nil
	}

	day, err := clock.ParseDate(date, s.loc)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), s.loc), nil
}

// ScanAbsences implements alert.Service.
func (s *service) ScanAbsences(ctx context.Context) (alert.AbsenceScanResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return alert.AbsenceScanResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	records, err := s.recordRepo.List(ctx)
	if err != nil {
		return alert.AbsenceScanResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	today := clock.FormatDate(s.clock.Now().In(s.loc))
	created, err := s.GenerateAbsenceAlerts(ctx, users, records, today)
	if err != nil {
		return alert.AbsenceScanResponse{}, err
	}

	slog.Info("absence scan finished", "date", today, "created", len(created))

	return alert.AbsenceScanResponse{
		Date:    today,
		Created: len(created),
		Alerts:  created,
	}, nil
}

// GetAlerts implements alert.Service. Newest alerts come first.
func (s *service) GetAlerts(ctx context.Context, filter alert.AlertFilter) ([]alert.Alert, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	alerts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	out := make([]alert.Alert, 0, len(alerts))
	for _, a := range alerts {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// UnreadCount implements alert.Service.
func (s *service) UnreadCount(ctx context.Context, userID string) (int, error) {
	alerts, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	filter := alert.AlertFilter{UserID: userID, UnreadOnly: true}
	count := 0
	for _, a := range alerts {
		if filter.Matches(a) {
			count++
		}
	}
	return count, nil
}

// MarkRead implements alert.Service.
func (s *service) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	return nil
}

// MarkAllRead implements alert.Service.
func (s *service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	marked, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark alerts read: %w", err)
	}
	return marked, nil
}

// Subscribe implements alert.Service.
func (s *service) Subscribe(userID string) (<-chan alert.Alert, func()) {
	return s.hub.Subscribe(userID)
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
