package alert

import (
	"context"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
)

// Service defines the alert generator
type Service interface {
	CreateAlert(ctx context.Context, userID string, t Type, message string) (Alert, error)

	// GenerateAbsenceAlerts creates one absent alert per user without a record dated
	// today, skipping users that already have an absent alert today. The alerts are
	// stamped on today, which may be a past date.
	GenerateAbsenceAlerts(ctx context.Context, users []user.User, records []attendance.Record, today string) ([]Alert, error)

	// ScanAbsences runs GenerateAbsenceAlerts over the stored roster and records.
	ScanAbsences(ctx context.Context) (AbsenceScanResponse, error)

	GetAlerts(ctx context.Context, filter AlertFilter) ([]Alert, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)

	// Subscribe streams newly created alerts for userID ("" receives every alert).
	Subscribe(userID string) (<-chan Alert, func())

	// Stop drains pending deliveries.
	Stop()
}

// Notifier delivers a freshly created alert somewhere outside the store.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}
