package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancientnerds/relica/internal/core/domain"
)

func TestTabFor_IsTotal(t *testing.T) {
	tests := []struct {
		contentType domain.ContentType
		want        domain.GalleryTab
	}{
		{domain.ContentPhoto, domain.TabPhotos},
		{domain.ContentVideo, domain.TabPhotos},
		{domain.ContentAudio, domain.TabPhotos},
		{domain.ContentText, domain.TabPhotos},
		{domain.ContentMap, domain.TabMaps},
		{domain.ContentModel3D, domain.TabModels},
		{domain.ContentArtifact, domain.TabArtifacts},
		{domain.ContentArtwork, domain.TabArtworks},
		{domain.ContentBook, domain.TabBooks},
		{domain.ContentPaper, domain.TabPapers},
		{domain.ContentMyth, domain.TabMyths},
		{domain.ContentType("hologram"), domain.TabPhotos}, // unknown defaults to photos
	}

	for _, tt := range tests {
		t.Run(string(tt.contentType), func(t *testing.T) {
			assert.Equal(t, tt.want, TabFor(tt.contentType))
		})
	}
}

func TestToUnifiedItem_FullFallsBackToThumbnail(t *testing.T) {
	item := domain.ContentItem{
		ID:           "p1",
		Source:       "gateway",
		ContentType:  domain.ContentPhoto,
		Title:        "Ishtar Gate",
		ThumbnailURL: "https://img.example/thumb.jpg",
	}

	unified := ToUnifiedItem(item)

	assert.Equal(t, "https://img.example/thumb.jpg", unified.Full)
	assert.Equal(t, "https://img.example/thumb.jpg", unified.Thumb)
	assert.Equal(t, item, unified.Original)
}

func TestGroupByTab_EveryBucketPresent(t *testing.T) {
	grouped := GroupByTab([]domain.ContentItem{
		{ID: "m1", ContentType: domain.ContentMap},
		{ID: "p1", ContentType: domain.ContentPhoto},
		{ID: "p2", ContentType: domain.ContentVideo},
	})

	require.Len(t, grouped, len(domain.AllTabs))
	for _, tab := range domain.AllTabs {
		assert.Contains(t, grouped, tab)
	}

	assert.Len(t, grouped[domain.TabPhotos], 2)
	assert.Len(t, grouped[domain.TabMaps], 1)
	assert.Empty(t, grouped[domain.TabBooks])
}

func TestSelectHero_TabPriority(t *testing.T) {
	photo := domain.UnifiedGalleryItem{ID: "p1", Full: "https://img.example/p.jpg"}
	artwork := domain.UnifiedGalleryItem{ID: "a1", Full: "https://img.example/a.jpg"}
	mapItem := domain.UnifiedGalleryItem{ID: "m1", Full: "https://img.example/m.jpg"}

	tests := []struct {
		name    string
		grouped domain.GroupedGallery
		want    *domain.UnifiedGalleryItem
	}{
		{
			name: "photos beat artworks and maps",
			grouped: domain.GroupedGallery{
				domain.TabPhotos:   {photo},
				domain.TabArtworks: {artwork},
				domain.TabMaps:     {mapItem},
			},
			want: &photo,
		},
		{
			name: "artworks beat maps",
			grouped: domain.GroupedGallery{
				domain.TabPhotos:   {},
				domain.TabArtworks: {artwork},
				domain.TabMaps:     {mapItem},
			},
			want: &artwork,
		},
		{
			name: "maps when nothing better",
			grouped: domain.GroupedGallery{
				domain.TabMaps: {mapItem},
			},
			want: &mapItem,
		},
		{
			name: "other tabs never supply the hero",
			grouped: domain.GroupedGallery{
				domain.TabModels: {{ID: "x1"}},
				domain.TabBooks:  {{ID: "b1"}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectHero(tt.grouped))
		})
	}
}

func TestDedupe_ExactMatchOnTitleOrURL(t *testing.T) {
	priority := []domain.UnifiedGalleryItem{
		{ID: "g1", Title: "Alpha", Full: "https://x/a.jpg"},
	}
	others := []domain.UnifiedGalleryItem{
		{ID: "o1", Title: "alpha", Full: "https://y/b.jpg"},       // title matches, case-insensitive
		{ID: "o2", Title: "Beta", Full: "HTTPS://X/A.JPG"},        // URL matches, case-insensitive
		{ID: "o3", Title: "Gamma", Full: "https://y/c.jpg"},       // survives
		{ID: "o4", Title: "Alpha Gate", Full: "https://y/d.jpg"},  // near-duplicate title is kept
	}

	merged := Dedupe(priority, others)

	require.Len(t, merged, 3)
	assert.Equal(t, "g1", merged[0].ID, "priority items come first")
	assert.Equal(t, "o3", merged[1].ID)
	assert.Equal(t, "o4", merged[2].ID, "survivors keep their order")
}

func TestDedupe_EmptyFieldsNeverMatch(t *testing.T) {
	priority := []domain.UnifiedGalleryItem{
		{ID: "g1", Title: "", Full: "https://x/a.jpg"},
	}
	others := []domain.UnifiedGalleryItem{
		{ID: "o1", Title: "", Full: "https://y/b.jpg"},
		{ID: "o2", Title: "", Full: ""},
	}

	merged := Dedupe(priority, others)
	assert.Len(t, merged, 3, "empty titles and URLs must not collide")
}
