package collection

import (
	"context"

	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
)

type attendanceRepositoryImpl struct {
	records jsonCollection[attendance.Record]
}

func NewAttendanceRepository(store storage.BlobStorage) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{records: newJSONCollection[attendance.Record](store, RecordsKey)}
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context) ([]attendance.Record, error) {
	records, _, err := r.records.load(ctx)
	return records, err
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]attendance.Record, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]attendance.Record, 0)
	for _, rec := range records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetOpenSession(ctx context.Context, userID, date string) (*attendance.Record, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if i := findOpen(records, userID, date); i >= 0 {
		rec := records[i]
		return &rec, nil
	}
	return nil, nil
}

// OpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) OpenSession(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	// Without a storage medium the write is skipped and rec is reported as created.
	stored, created := rec, true
	err := r.records.update(ctx, func(records []attendance.Record, _ bool) ([]attendance.Record, error) {
		if i := findOpen(records, rec.UserID, rec.Date); i >= 0 {
			stored, created = records[i], false
			return records, nil
		}
		stored, created = rec, true
		return append(records, rec), nil
	})
	if err != nil {
		return attendance.Record{}, false, err
	}
	return stored, created, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, id string, fn func(*attendance.Record) error) (attendance.Record, error) {
	var updated attendance.Record
	err := r.records.update(ctx, func(records []attendance.Record, _ bool) ([]attendance.Record, error) {
		for i := range records {
			if records[i].ID != id {
				continue
			}
			if err := fn(&records[i]); err != nil {
				return nil, err
			}
			updated = records[i]
			return records, nil
		}
		return nil, attendance.ErrRecordNotFound
	})
	if err != nil {
		return attendance.Record{}, err
	}
	if updated.ID == "" {
		// Skipped write, nothing was there to update.
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return updated, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.records.update(ctx, func(records []attendance.Record, _ bool) ([]attendance.Record, error) {
		kept := records[:0]
		for _, rec := range records {
			if rec.ID != id {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
}

// Clear implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Clear(ctx context.Context) error {
	return r.records.drop(ctx)
}

func findOpen(records []attendance.Record, userID, date string) int {
	for i := range records {
		if records[i].UserID == userID && records[i].Date == date && records[i].IsOpen() {
			return i
		}
	}
	return -1
}
