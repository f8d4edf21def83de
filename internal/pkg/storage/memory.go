package storage

import (
	"context"
	"sync"
)

type MemoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (s *MemoryStorage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStorage) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.blobs[key]
	next, err := fn(append([]byte(nil), current...), exists)
	if err != nil {
		return err
	}
	s.blobs[key] = next
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.blobs, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Close(ctx context.Context) error {
	return nil
}

// Unavailable stands in for a missing storage medium.
type Unavailable struct{}

func (Unavailable) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return ErrUnavailable
}

func (Unavailable) Delete(ctx context.Context, key string) error {
	return ErrUnavailable
}

func (Unavailable) Close(ctx context.Context) error {
	return nil
}
