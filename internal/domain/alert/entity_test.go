package alert

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasAbsenceOn(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	alerts := []Alert{
		// 2024-01-15 20:00 UTC is 2024-01-16 03:00 in UTC+7.
		{ID: "a1", UserID: "1", Type: TypeAbsent, Timestamp: time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)},
		{ID: "a2", UserID: "2", Type: TypeLate, Timestamp: time.Date(2024, 1, 16, 4, 0, 0, 0, time.UTC)},
	}

	assert.True(t, HasAbsenceOn(alerts, "1", "2024-01-16", loc))
	assert.False(t, HasAbsenceOn(alerts, "1", "2024-01-15", loc))
	assert.True(t, HasAbsenceOn(alerts, "1", "2024-01-15", time.UTC))
	assert.False(t, HasAbsenceOn(alerts, "2", "2024-01-16", loc), "late alerts do not count")
}

func TestAlertFilter(t *testing.T) {
	f := AlertFilter{Type: "ALL"}
	require.NoError(t, f.Validate())
	assert.Equal(t, "", f.Type)

	f = AlertFilter{Type: "vacation"}
	var errs validator.ValidationErrors
	require.ErrorAs(t, f.Validate(), &errs)

	f = AlertFilter{UserID: "1", Type: "late", UnreadOnly: true}
	require.NoError(t, f.Validate())
	assert.True(t, f.Matches(Alert{UserID: "1", Type: TypeLate}))
	assert.False(t, f.Matches(Alert{UserID: "1", Type: TypeLate, Read: true}))
	assert.False(t, f.Matches(Alert{UserID: "2", Type: TypeLate}))
	assert.False(t, f.Matches(Alert{UserID: "1", Type: TypeAbsent}))
}

func TestType_Valid(t *testing.T) {
	for _, typ := range AllTypes() {
		assert.True(t, typ.Valid())
	}
	assert.False(t, Type("present").Valid())
}
