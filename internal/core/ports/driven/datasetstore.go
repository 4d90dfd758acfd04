package driven

import "context"

// DatasetStore is a durable cache for large per-entity multi-file
// datasets (historical boundary files). Files are stored individually
// so an interrupted download resumes from the files already present.
// The set of completed dataset IDs survives restarts.
type DatasetStore interface {
	// PutFile stores one file of a dataset.
	PutFile(ctx context.Context, datasetID, name string, data []byte) error

	// GetFile returns one file of a dataset.
	// Returns domain.ErrNotFound when absent.
	GetFile(ctx context.Context, datasetID, name string) ([]byte, error)

	// HasFile reports whether the file is already cached.
	HasFile(ctx context.Context, datasetID, name string) (bool, error)

	// Files lists the cached file names of a dataset.
	Files(ctx context.Context, datasetID string) ([]string, error)

	// MarkComplete records that every file of the dataset is cached.
	MarkComplete(ctx context.Context, datasetID string) error

	// IsComplete reports whether the dataset was fully downloaded.
	IsComplete(ctx context.Context, datasetID string) (bool, error)

	// CompletedIDs lists all fully cached dataset IDs.
	CompletedIDs(ctx context.Context) ([]string, error)

	// Delete removes a dataset, its files and its completion marker.
	Delete(ctx context.Context, datasetID string) error
}
