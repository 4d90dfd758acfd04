package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
	"github.com/ancientnerds/relica/internal/logger"
)

// DatasetService downloads bulk per-entity datasets into the durable
// dataset cache. Downloads are resumable: files already present are
// skipped, so an interrupted download continues from where it stopped
// instead of starting over.
type DatasetService struct {
	store   driven.DatasetStore
	offline driving.OfflineController
}

// NewDatasetService creates a dataset service.
func NewDatasetService(store driven.DatasetStore, offline driving.OfflineController) *DatasetService {
	return &DatasetService{store: store, offline: offline}
}

// Ensure makes the dataset fully cached. A dataset already marked
// complete is a no-op. Otherwise the manifest is fetched and every
// missing file downloaded; files cached by a previous partial
// download are skipped.
func (s *DatasetService) Ensure(ctx context.Context, datasetID, manifestURL string) error {
	complete, err := s.store.IsComplete(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("checking dataset %s: %w", datasetID, err)
	}
	if complete {
		logger.Debug("Dataset %s already complete", datasetID)
		return nil
	}

	raw, err := s.offline.Retrieve(ctx, manifestURL)
	if err != nil {
		return fmt.Errorf("fetching manifest for %s: %w", datasetID, err)
	}

	var manifest domain.DatasetManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return fmt.Errorf("%w: parsing manifest for %s: %v", domain.ErrProvider, datasetID, err)
	}

	fetched := 0
	for _, file := range manifest.Files {
		has, err := s.store.HasFile(ctx, datasetID, file.Name)
		if err != nil {
			return fmt.Errorf("checking file %s/%s: %w", datasetID, file.Name, err)
		}
		if has {
			continue
		}

		data, err := s.offline.Retrieve(ctx, file.URL)
		if err != nil {
			return fmt.Errorf("downloading %s/%s: %w", datasetID, file.Name, err)
		}
		if err := s.store.PutFile(ctx, datasetID, file.Name, data); err != nil {
			return fmt.Errorf("storing %s/%s: %w", datasetID, file.Name, err)
		}
		fetched++
	}

	if err := s.store.MarkComplete(ctx, datasetID); err != nil {
		return fmt.Errorf("marking %s complete: %w", datasetID, err)
	}

	logger.Info("Dataset %s complete: %d files fetched, %d reused",
		datasetID, fetched, len(manifest.Files)-fetched)
	return nil
}

// File returns one cached file of a dataset.
func (s *DatasetService) File(ctx context.Context, datasetID, name string) ([]byte, error) {
	return s.store.GetFile(ctx, datasetID, name)
}

// Completed lists the fully cached dataset IDs.
func (s *DatasetService) Completed(ctx context.Context) ([]string, error) {
	return s.store.CompletedIDs(ctx)
}
