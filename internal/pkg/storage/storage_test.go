package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlobStorage(t *testing.T, store BlobStorage) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Update(ctx, "records", func(current []byte, exists bool) ([]byte, error) {
		assert.False(t, exists)
		assert.Nil(t, current)
		return []byte(`[1]`), nil
	})
	require.NoError(t, err)

	err = store.Update(ctx, "records", func(current []byte, exists bool) ([]byte, error) {
		assert.True(t, exists)
		assert.Equal(t, `[1]`, string(current))
		return []byte(`[1,2]`), nil
	})
	require.NoError(t, err)

	data, err := store.Load(ctx, "records")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	// A failing update leaves the stored blob alone.
	boom := errors.New("boom")
	err = store.Update(ctx, "records", func(current []byte, exists bool) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	data, err = store.Load(ctx, "records")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	require.NoError(t, store.Delete(ctx, "records"))
	require.NoError(t, store.Delete(ctx, "records"))
	_, err = store.Load(ctx, "records")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Close(ctx))
}

func testConcurrentUpdates(t *testing.T, store BlobStorage) {
	t.Helper()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "counter", func(current []byte, exists bool) ([]byte, error) {
				return append(current, 'x'), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	data, err := store.Load(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, data, 20)
}

func TestMemoryStorage(t *testing.T) {
	testBlobStorage(t, NewMemoryStorage())
}

func TestMemoryStorage_ConcurrentUpdates(t *testing.T) {
	testConcurrentUpdates(t, NewMemoryStorage())
}

func TestMemoryStorage_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return []byte("abc"), nil
	}))

	data, err := store.Load(ctx, "k")
	require.NoError(t, err)
	data[0] = 'z'

	again, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestLocalStorage(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	testBlobStorage(t, store)
}

func TestLocalStorage_ConcurrentUpdates(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	testConcurrentUpdates(t, store)
}

func TestLocalStorage_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Update(context.Background(), "attendance_users", func([]byte, bool) ([]byte, error) {
		return []byte(`[]`), nil
	}))

	data, err := os.ReadFile(filepath.Join(dir, "attendance_users.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "../escape")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	var store BlobStorage = Unavailable{}

	_, err := store.Load(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)

	called := false
	err = store.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, called)

	assert.ErrorIs(t, store.Delete(ctx, "k"), ErrUnavailable)
	assert.NoError(t, store.Close(ctx))
}
