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

// datasetStore implements driven.DatasetStore.
type datasetStore struct {
	store *Store
}

var _ driven.DatasetStore = (*datasetStore)(nil)

// PutFile stores one file of a dataset, then evicts whole old
// datasets while the cache exceeds its byte budget.
func (d *datasetStore) PutFile(ctx context.Context, datasetID, name string, data []byte) error {
	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO dataset_files (dataset_id, name, data, size, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(dataset_id, name) DO UPDATE SET
			data = excluded.data,
			size = excluded.size
	`, datasetID, name, data, len(data), time.Now())
	if err != nil {
		return fmt.Errorf("saving dataset file: %w", err)
	}

	return d.evict(ctx, datasetID)
}

// GetFile returns one file of a dataset.
func (d *datasetStore) GetFile(ctx context.Context, datasetID, name string) ([]byte, error) {
	var data []byte
	row := d.store.db.QueryRowContext(ctx,
		"SELECT data FROM dataset_files WHERE dataset_id = ? AND name = ?", datasetID, name)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}
	return data, nil
}

// HasFile reports whether the file is already cached.
func (d *datasetStore) HasFile(ctx context.Context, datasetID, name string) (bool, error) {
	var one int
	row := d.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM dataset_files WHERE dataset_id = ? AND name = ?", datasetID, name)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking dataset file: %w", err)
	}
	return true, nil
}

// Files lists the cached file names of a dataset.
func (d *datasetStore) Files(ctx context.Context, datasetID string) ([]string, error) {
	rows, err := d.store.db.QueryContext(ctx,
		"SELECT name FROM dataset_files WHERE dataset_id = ? ORDER BY name", datasetID)
	if err != nil {
		return nil, fmt.Errorf("querying dataset files: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning dataset file name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dataset files: %w", err)
	}
	return names, nil
}

// MarkComplete records that every file of the dataset is cached.
func (d *datasetStore) MarkComplete(ctx context.Context, datasetID string) error {
	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO dataset_state (dataset_id, complete, completed_at)
		VALUES (?, 1, ?)
		ON CONFLICT(dataset_id) DO UPDATE SET
			complete = 1,
			completed_at = excluded.completed_at
	`, datasetID, time.Now())
	if err != nil {
		return fmt.Errorf("marking dataset complete: %w", err)
	}
	return nil
}

// IsComplete reports whether the dataset was fully downloaded.
func (d *datasetStore) IsComplete(ctx context.Context, datasetID string) (bool, error) {
	var complete int
	row := d.store.db.QueryRowContext(ctx,
		"SELECT complete FROM dataset_state WHERE dataset_id = ?", datasetID)
	if err := row.Scan(&complete); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking dataset state: %w", err)
	}
	return complete == 1, nil
}

// CompletedIDs lists all fully cached dataset IDs.
func (d *datasetStore) CompletedIDs(ctx context.Context) ([]string, error) {
	rows, err := d.store.db.QueryContext(ctx,
		"SELECT dataset_id FROM dataset_state WHERE complete = 1 ORDER BY dataset_id")
	if err != nil {
		return nil, fmt.Errorf("querying completed datasets: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning dataset id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed datasets: %w", err)
	}
	return ids, nil
}

// Delete removes a dataset, its files and its completion marker.
func (d *datasetStore) Delete(ctx context.Context, datasetID string) error {
	if _, err := d.store.db.ExecContext(ctx,
		"DELETE FROM dataset_files WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("deleting dataset files: %w", err)
	}
	if _, err := d.store.db.ExecContext(ctx,
		"DELETE FROM dataset_state WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("deleting dataset state: %w", err)
	}
	return nil
}

// evict removes the oldest complete datasets until the cache is back
// under its byte budget. The dataset currently being written is never
// evicted, so a download in progress cannot starve itself.
func (d *datasetStore) evict(ctx context.Context, activeID string) error {
	for {
		var total sql.NullInt64
		row := d.store.db.QueryRowContext(ctx, "SELECT SUM(size) FROM dataset_files")
		if err := row.Scan(&total); err != nil {
			return fmt.Errorf("sizing dataset cache: %w", err)
		}
		if !total.Valid || total.Int64 <= d.store.datasetBudget {
			return nil
		}

		var victim string
		row = d.store.db.QueryRowContext(ctx, `
			SELECT dataset_id FROM dataset_files
			WHERE dataset_id != ?
			GROUP BY dataset_id
			ORDER BY MIN(created_at) ASC
			LIMIT 1
		`, activeID)
		if err := row.Scan(&victim); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil // Only the active dataset remains
			}
			return fmt.Errorf("finding dataset eviction candidate: %w", err)
		}

		logger.Info("Evicting dataset %s over budget", victim)
		if err := d.Delete(ctx, victim); err != nil {
			return err
		}
	}
}
