package attendance

import (
	"context"
)

// AttendanceService is the record store used by check-in/out clients.
type AttendanceService interface {
	// CheckIn opens today's session for the user, or returns the one already open.
	CheckIn(ctx context.Context, req CheckInRequest) (Record, error)

	// CheckOut closes a session and applies the check-out classification.
	CheckOut(ctx context.Context, req CheckOutRequest) (Record, error)

	GetRecords(ctx context.Context) ([]Record, error)
	GetUserRecords(ctx context.Context, userID string) ([]Record, error)

	// GetTodaySession returns today's open record for the user, or nil.
	GetTodaySession(ctx context.Context, userID string) (*Record, error)

	DeleteRecord(ctx context.Context, id string) error

	// ClearAll wipes records, alerts and users and restores the default roster.
	ClearAll(ctx context.Context) error

	Settings() Settings
}
