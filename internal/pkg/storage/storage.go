package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load when the key has never been written.
	ErrNotFound = errors.New("storage key not found")

	// ErrUnavailable means the backing medium is absent. Callers degrade to empty reads
	// and skipped writes.
	ErrUnavailable = errors.New("storage unavailable")
)

// UpdateFunc receives the current blob (nil, false when the key is missing) and returns
// the blob to store. Returning an error aborts the update without writing.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// BlobStorage keeps whole collections as opaque blobs under string keys. There are no
// partial updates: a collection is always read and written as one unit.
type BlobStorage interface {
	// Load returns the blob stored under key.
	Load(ctx context.Context, key string) ([]byte, error)

	// Update performs an atomic read-modify-write of key. Concurrent updates of the same
	// key are serialized.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	Close(ctx context.Context) error
}
