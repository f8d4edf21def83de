package mongodb

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStorage(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := Connect(ctx, uri, "attendance_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Delete(context.Background(), "test_alerts")
		_ = store.Close(context.Background())
	})

	require.NoError(t, store.Delete(ctx, "test_alerts"))

	_, err = store.Load(ctx, "test_alerts")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.Update(ctx, "test_alerts", func(current []byte, exists bool) ([]byte, error) {
		assert.False(t, exists)
		return []byte(`[{"id":"a1"}]`), nil
	})
	require.NoError(t, err)

	err = store.Update(ctx, "test_alerts", func(current []byte, exists bool) ([]byte, error) {
		assert.True(t, exists)
		assert.Equal(t, `[{"id":"a1"}]`, string(current))
		return []byte(`[]`), nil
	})
	require.NoError(t, err)

	data, err := store.Load(ctx, "test_alerts")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}
