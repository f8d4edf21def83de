// Package collection stores whole entity collections as JSON blobs.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
)

const (
	UsersKey   = "attendance_users"
	RecordsKey = "attendance_records"
	AlertsKey  = "attendance_alerts"
)

// jsonCollection reads and writes one collection as a JSON array. An unavailable store
// degrades to empty reads and skipped writes.
type jsonCollection[T any] struct {
	store storage.BlobStorage
	key   string
}

func newJSONCollection[T any](store storage.BlobStorage, key string) jsonCollection[T] {
	return jsonCollection[T]{store: store, key: key}
}

// load returns the items and whether the key was ever written.
func (c jsonCollection[T]) load(ctx context.Context) ([]T, bool, error) {
	data, err := c.store.Load(ctx, c.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return []T{}, false, nil
	case errors.Is(err, storage.ErrUnavailable):
		slog.Debug("storage unavailable, reading empty collection", "key", c.key)
		return []T{}, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to load %s: %w", c.key, err)
	}

	items, err := decode[T](data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", c.key, err)
	}
	return items, true, nil
}

// update runs fn against the current items inside one atomic write.
func (c jsonCollection[T]) update(ctx context.Context, fn func(items []T, exists bool) ([]T, error)) error {
	err := c.store.Update(ctx, c.key, func(current []byte, exists bool) ([]byte, error) {
		items := []T{}
		if exists {
			decoded, err := decode[T](current)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", c.key, err)
			}
			items = decoded
		}

		next, err := fn(items, exists)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		return json.Marshal(next)
	})
	if errors.Is(err, storage.ErrUnavailable) {
		slog.Warn("storage unavailable, write skipped", "key", c.key)
		return nil
	}
	return err
}

func (c jsonCollection[T]) drop(ctx context.Context) error {
	err := c.store.Delete(ctx, c.key)
	if errors.Is(err, storage.ErrUnavailable) {
		slog.Warn("storage unavailable, delete skipped", "key", c.key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.key, err)
	}
	return nil
}

func decode[T any](data []byte) ([]T, error) {
	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
