package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancientnerds/relica/internal/core/domain"
)

const boundaryManifest = `{
	"files": [
		{"name": "0117.geojson", "url": "https://data.example/roman/0117.geojson"},
		{"name": "0271.geojson", "url": "https://data.example/roman/0271.geojson"}
	]
}`

func TestEnsure_DownloadsAllFilesAndMarksComplete(t *testing.T) {
	store := newMemDatasets()
	retriever := newStubRetriever(map[string][]byte{
		"https://data.example/roman/manifest.json": []byte(boundaryManifest),
		"https://data.example/roman/0117.geojson":  []byte("{}"),
		"https://data.example/roman/0271.geojson":  []byte("{}"),
	})
	svc := NewDatasetService(store, retriever)
	ctx := context.Background()

	require.NoError(t, svc.Ensure(ctx, "roman-empire", "https://data.example/roman/manifest.json"))

	files, err := store.Files(ctx, "roman-empire")
	require.NoError(t, err)
	assert.Equal(t, []string{"0117.geojson", "0271.geojson"}, files)

	complete, err := store.IsComplete(ctx, "roman-empire")
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestEnsure_CompleteDatasetIsANoOp(t *testing.T) {
	store := newMemDatasets()
	retriever := newStubRetriever(nil)
	require.NoError(t, store.MarkComplete(context.Background(), "roman-empire"))

	svc := NewDatasetService(store, retriever)
	require.NoError(t, svc.Ensure(context.Background(), "roman-empire", "https://data.example/roman/manifest.json"))

	assert.Zero(t, retriever.callCount("https://data.example/roman/manifest.json"),
		"a complete dataset must not refetch the manifest")
}

func TestEnsure_ResumeSkipsCachedFiles(t *testing.T) {
	store := newMemDatasets()
	ctx := context.Background()
	require.NoError(t, store.PutFile(ctx, "roman-empire", "0117.geojson", []byte("{}")))

	retriever := newStubRetriever(map[string][]byte{
		"https://data.example/roman/manifest.json": []byte(boundaryManifest),
		"https://data.example/roman/0271.geojson":  []byte("{}"),
	})
	svc := NewDatasetService(store, retriever)

	require.NoError(t, svc.Ensure(ctx, "roman-empire", "https://data.example/roman/manifest.json"))

	assert.Zero(t, retriever.callCount("https://data.example/roman/0117.geojson"),
		"present files are skipped on resume")
	assert.Equal(t, 1, retriever.callCount("https://data.example/roman/0271.geojson"))

	complete, err := store.IsComplete(ctx, "roman-empire")
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestEnsure_OfflineMissSurfacesNotCached(t *testing.T) {
	store := newMemDatasets()
	retriever := newStubRetriever(map[string][]byte{
		"https://data.example/roman/manifest.json": []byte(boundaryManifest),
	})
	svc := NewDatasetService(store, retriever)
	ctx := context.Background()

	err := svc.Ensure(ctx, "roman-empire", "https://data.example/roman/manifest.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotCached)

	complete, cerr := store.IsComplete(ctx, "roman-empire")
	require.NoError(t, cerr)
	assert.False(t, complete, "a failed download must not mark the dataset complete")
}

func TestEnsure_MalformedManifestIsProviderError(t *testing.T) {
	store := newMemDatasets()
	retriever := newStubRetriever(map[string][]byte{
		"https://data.example/roman/manifest.json": []byte("not json"),
	})
	svc := NewDatasetService(store, retriever)

	err := svc.Ensure(context.Background(), "roman-empire", "https://data.example/roman/manifest.json")
	assert.ErrorIs(t, err, domain.ErrProvider)
}
