package collection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRecord(id, userID, date string) attendance.Record {
	return attendance.Record{
		ID:          id,
		UserID:      userID,
		Date:        date,
		CheckInTime: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		Status:      attendance.StatusPresent,
	}
}

func TestUserRepository_DefaultRoster(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	repo := NewUserRepository(store)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.DefaultRoster(), users)

	// Reading never writes the roster.
	_, err = store.Load(ctx, UsersKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	u, err := repo.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Mike Wilson", u.Name)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_CreateDedupsByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(storage.NewMemoryStorage())

	added, err := repo.Create(ctx, user.User{ID: "7", Name: "New Person", Type: user.TypeStudent, Department: "Art"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Create(ctx, user.User{ID: "7", Name: "Someone Else"})
	require.NoError(t, err)
	assert.False(t, added)

	added, err = repo.Create(ctx, user.User{ID: "1", Name: "Clash"})
	require.NoError(t, err)
	assert.False(t, added)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 7)
	assert.Equal(t, "New Person", users[6].Name)

	n, err := repo.CreateBatch(ctx, []user.User{{ID: "8"}, {ID: "8"}, {ID: "9"}, {ID: "2"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUserRepository_DeleteAndReset(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(storage.NewMemoryStorage())

	require.NoError(t, repo.Delete(ctx, "1"))
	require.NoError(t, repo.Delete(ctx, "unknown"))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)

	// Deleting everyone leaves an empty roster, not the default one.
	for _, u := range users {
		require.NoError(t, repo.Delete(ctx, u.ID))
	}
	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, repo.Reset(ctx))
	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 6)
}

func TestAttendanceRepository_OpenSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(storage.NewMemoryStorage())

	stored, created, err := repo.OpenSession(ctx, openRecord("r1", "1", "2024-01-15"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "r1", stored.ID)

	stored, created, err = repo.OpenSession(ctx, openRecord("r2", "1", "2024-01-15"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "r1", stored.ID)

	// A different day or user opens a new session.
	_, created, err = repo.OpenSession(ctx, openRecord("r3", "1", "2024-01-16"))
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = repo.OpenSession(ctx, openRecord("r4", "2", "2024-01-15"))
	require.NoError(t, err)
	assert.True(t, created)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	mine, err := repo.ListByUser(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestAttendanceRepository_UpdateAndOpenSession(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(storage.NewMemoryStorage())

	_, _, err := repo.OpenSession(ctx, openRecord("r1", "1", "2024-01-15"))
	require.NoError(t, err)

	open, err := repo.GetOpenSession(ctx, "1", "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, "r1", open.ID)

	out := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)
	updated, err := repo.Update(ctx, "r1", func(r *attendance.Record) error {
		r.CheckOutTime = &out
		return nil
	})
	require.NoError(t, err)
	assert.False(t, updated.IsOpen())

	open, err = repo.GetOpenSession(ctx, "1", "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, open)

	// A closed session does not block a second one on the same day.
	_, created, err := repo.OpenSession(ctx, openRecord("r2", "1", "2024-01-15"))
	require.NoError(t, err)
	assert.True(t, created)

	_, err = repo.Update(ctx, "missing", func(*attendance.Record) error { return nil })
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, "r2", func(r *attendance.Record) error {
		r.UserName = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, ok := findRecord(t, repo, "r2")
	require.True(t, ok)
	assert.Empty(t, got.UserName)
}

func findRecord(t *testing.T, repo attendance.AttendanceRepository, id string) (attendance.Record, bool) {
	t.Helper()
	records, err := repo.List(context.Background())
	require.NoError(t, err)
	for _, rec := range records {
		if rec.ID == id {
			return rec, true
		}
	}
	return attendance.Record{}, false
}

func TestAttendanceRepository_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(storage.NewMemoryStorage())

	for _, id := range []string{"a", "b", "c"} {
		_, _, err := repo.OpenSession(ctx, openRecord(id, id, "2024-01-15"))
		require.NoError(t, err)
	}

	require.NoError(t, repo.Delete(ctx, "b"))
	require.NoError(t, repo.Delete(ctx, "zzz"))
	_, ok := findRecord(t, repo, "b")
	assert.False(t, ok)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, repo.Clear(ctx))
	records, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAlertRepository_CreateAbsencesDedups(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertRepository(storage.NewMemoryStorage())
	ts := time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)

	candidates := []alert.Alert{
		{ID: "a1", UserID: "1", Type: alert.TypeAbsent, Timestamp: ts},
		{ID: "a2", UserID: "2", Type: alert.TypeAbsent, Timestamp: ts},
	}
	created, err := repo.CreateAbsences(ctx, candidates, "2024-01-15", time.UTC)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	again := []alert.Alert{
		{ID: "a3", UserID: "1", Type: alert.TypeAbsent, Timestamp: ts.Add(time.Hour)},
		{ID: "a4", UserID: "3", Type: alert.TypeAbsent, Timestamp: ts.Add(time.Hour)},
	}
	created, err = repo.CreateAbsences(ctx, again, "2024-01-15", time.UTC)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "3", created[0].UserID)

	alerts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 3)
}

func TestAlertRepository_MarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertRepository(storage.NewMemoryStorage())

	for _, a := range []alert.Alert{
		{ID: "a1", UserID: "1", Type: alert.TypeLate},
		{ID: "a2", UserID: "1", Type: alert.TypeEarlyDeparture},
		{ID: "a3", UserID: "2", Type: alert.TypeLate},
	} {
		require.NoError(t, repo.Create(ctx, a))
	}

	require.NoError(t, repo.MarkRead(ctx, "a1"))
	require.NoError(t, repo.MarkRead(ctx, "unknown"))

	n, err := repo.MarkAllRead(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.MarkAllRead(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	alerts, err := repo.List(ctx)
	require.NoError(t, err)
	for _, a := range alerts {
		assert.True(t, a.Read, a.ID)
	}

	require.NoError(t, repo.Clear(ctx))
	alerts, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCollections_UnavailableStorageDegrades(t *testing.T) {
	ctx := context.Background()
	store := storage.Unavailable{}

	users := NewUserRepository(store)
	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)
	added, err := users.Create(ctx, user.User{ID: "x"})
	require.NoError(t, err)
	assert.False(t, added)
	require.NoError(t, users.Reset(ctx))

	records := NewAttendanceRepository(store)
	stored, created, err := records.OpenSession(ctx, openRecord("r1", "1", "2024-01-15"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "r1", stored.ID)

	all, err := records.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	_, err = records.Update(ctx, "r1", func(*attendance.Record) error { return nil })
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	alerts := NewAlertRepository(store)
	require.NoError(t, alerts.Create(ctx, alert.Alert{ID: "a1"}))
	n, err := alerts.MarkAllRead(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, alerts.Clear(ctx))
}

func TestCollections_CorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Update(ctx, RecordsKey, func([]byte, bool) ([]byte, error) {
		return []byte("{not json"), nil
	}))

	repo := NewAttendanceRepository(store)
	_, err := repo.List(ctx)
	assert.Error(t, err)
}
