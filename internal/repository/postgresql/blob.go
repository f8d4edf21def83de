package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
	"github.com/jackc/pgx/v5"
)

const createBlobTable = `
CREATE TABLE IF NOT EXISTS attendance_blobs (
	key        TEXT PRIMARY KEY,
	value      JSONB,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// BlobStorage keeps each collection as one JSONB row.
type BlobStorage struct {
	db *database.DB
}

func NewBlobStorage(db *database.DB) *BlobStorage {
	return &BlobStorage{db: db}
}

// Migrate creates the blob table when it does not exist yet.
func (s *BlobStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createBlobTable); err != nil {
		return fmt.Errorf("failed to create attendance_blobs table: %w", err)
	}
	return nil
}

func (s *BlobStorage) Load(ctx context.Context, key string) ([]byte, error) {
	q := GetQuerier(ctx, s.db)

	var value []byte
	err := q.QueryRow(ctx, `SELECT value FROM attendance_blobs WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	// A NULL value is a row reserved by an update that has not committed content.
	if value == nil {
		return nil, storage.ErrNotFound
	}
	return value, nil
}

func (s *BlobStorage) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	return WithTransaction(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		// Reserve the row so FOR UPDATE has something to lock on the first write.
		if _, err := tx.Exec(ctx,
			`INSERT INTO attendance_blobs (key, value) VALUES ($1, NULL) ON CONFLICT (key) DO NOTHING`,
			key,
		); err != nil {
			return fmt.Errorf("failed to reserve %s: %w", key, err)
		}

		var current []byte
		if err := tx.QueryRow(ctx,
			`SELECT value FROM attendance_blobs WHERE key = $1 FOR UPDATE`,
			key,
		).Scan(&current); err != nil {
			return fmt.Errorf("failed to lock %s: %w", key, err)
		}

		next, err := fn(current, current != nil)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE attendance_blobs SET value = $2, updated_at = NOW() WHERE key = $1`,
			key, string(next),
		); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		return nil
	})
}

func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	q := GetQuerier(ctx, s.db)
	if _, err := q.Exec(ctx, `DELETE FROM attendance_blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *BlobStorage) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}
