package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/logger"
)

// blobStore implements driven.BlobStore.
type blobStore struct {
	store *Store
}

var _ driven.BlobStore = (*blobStore)(nil)

// Get returns the blob for key, refreshing its last-access time.
func (b *blobStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var data []byte
	row := b.store.db.QueryRowContext(ctx,
		"SELECT data FROM blobs WHERE namespace = ? AND key = ?", namespace, key)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}

	// Access refreshes eviction position; a failure here only skews
	// eviction order, so it is not fatal.
	if _, err := b.store.db.ExecContext(ctx,
		"UPDATE blobs SET accessed_at = ? WHERE namespace = ? AND key = ?",
		time.Now(), namespace, key); err != nil {
		logger.Warn("Failed to touch blob %s/%s: %v", namespace, key, err)
	}

	return data, nil
}

// Put stores the blob, then evicts least-recently-accessed entries
// while the namespace exceeds its byte budget.
func (b *blobStore) Put(ctx context.Context, namespace, key string, data []byte) error {
	now := time.Now()
	_, err := b.store.db.ExecContext(ctx, `
		INSERT INTO blobs (namespace, key, data, size, created_at, accessed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET
			data = excluded.data,
			size = excluded.size,
			accessed_at = excluded.accessed_at
	`, namespace, key, data, len(data), now, now)
	if err != nil {
		return fmt.Errorf("saving blob: %w", err)
	}

	return b.evict(ctx, namespace)
}

// Delete removes the blob. Deleting an absent key is not an error.
func (b *blobStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := b.store.db.ExecContext(ctx,
		"DELETE FROM blobs WHERE namespace = ? AND key = ?", namespace, key)
	if err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// Keys lists all keys in the namespace.
func (b *blobStore) Keys(ctx context.Context, namespace string) ([]string, error) {
	rows, err := b.store.db.QueryContext(ctx,
		"SELECT key FROM blobs WHERE namespace = ? ORDER BY accessed_at DESC", namespace)
	if err != nil {
		return nil, fmt.Errorf("querying blob keys: %w", err)
	}
	defer rows.Close()

	var keys []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning blob key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blob keys: %w", err)
	}
	return keys, nil
}

// evict removes least-recently-accessed blobs until the namespace is
// back under its byte budget.
func (b *blobStore) evict(ctx context.Context, namespace string) error {
	for {
		var total sql.NullInt64
		row := b.store.db.QueryRowContext(ctx,
			"SELECT SUM(size) FROM blobs WHERE namespace = ?", namespace)
		if err := row.Scan(&total); err != nil {
			return fmt.Errorf("sizing namespace: %w", err)
		}
		if !total.Valid || total.Int64 <= b.store.blobBudget {
			return nil
		}

		var key string
		row = b.store.db.QueryRowContext(ctx, `
			SELECT key FROM blobs WHERE namespace = ?
			ORDER BY accessed_at ASC LIMIT 1
		`, namespace)
		if err := row.Scan(&key); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("finding eviction candidate: %w", err)
		}

		logger.Debug("Evicting blob %s/%s over budget", namespace, key)
		if err := b.Delete(ctx, namespace, key); err != nil {
			return err
		}
	}
}
