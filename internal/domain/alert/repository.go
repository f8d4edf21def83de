package alert

import (
	"context"
	"time"
)

// Repository stores the full alert collection.
type Repository interface {
	Create(ctx context.Context, a Alert) error

	// CreateAbsences inserts each candidate whose user has no absent alert on date yet.
	// The check and the insert happen in one write, so repeated scans never duplicate.
	CreateAbsences(ctx context.Context, candidates []Alert, date string, loc *time.Location) ([]Alert, error)

	List(ctx context.Context) ([]Alert, error)

	// MarkRead flips read to true. Unknown or already-read ids are ignored.
	MarkRead(ctx context.Context, id string) error

	// MarkAllRead marks every alert of userID read, or every alert when userID is empty.
	MarkAllRead(ctx context.Context, userID string) (int, error)

	Clear(ctx context.Context) error
}
