package attendance

import (
	"context"
)

// AttendanceRepository stores the full record collection. Every mutating method is one
// atomic read-modify-write of that collection.
type AttendanceRepository interface {
	List(ctx context.Context) ([]Record, error)

	ListByUser(ctx context.Context, userID string) ([]Record, error)

	// GetOpenSession returns the open record for userID on date, or nil when none exists.
	GetOpenSession(ctx context.Context, userID, date string) (*Record, error)

	// OpenSession stores rec unless userID already has an open record on rec.Date, in
	// which case the existing record is returned and created is false.
	OpenSession(ctx context.Context, rec Record) (stored Record, created bool, err error)

	// Update applies fn to the record with the given id and persists the result.
	Update(ctx context.Context, id string, fn func(*Record) error) (Record, error)

	// Delete removes a record. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Clear removes every record.
	Clear(ctx context.Context) error
}
