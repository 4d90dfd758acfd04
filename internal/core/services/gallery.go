package services

import (
	"strings"

	"github.com/ancientnerds/relica/internal/core/domain"
)

// tabByType is the total static mapping from content type to tab.
// Unknown types default to the photos tab.
var tabByType = map[domain.ContentType]domain.GalleryTab{
	domain.ContentPhoto:    domain.TabPhotos,
	domain.ContentVideo:    domain.TabPhotos,
	domain.ContentAudio:    domain.TabPhotos,
	domain.ContentText:     domain.TabPhotos,
	domain.ContentMap:      domain.TabMaps,
	domain.ContentModel3D:  domain.TabModels,
	domain.ContentArtifact: domain.TabArtifacts,
	domain.ContentArtwork:  domain.TabArtworks,
	domain.ContentBook:     domain.TabBooks,
	domain.ContentPaper:    domain.TabPapers,
	domain.ContentMyth:     domain.TabMyths,
}

// heroOrder is the tab priority for hero selection.
var heroOrder = []domain.GalleryTab{domain.TabPhotos, domain.TabArtworks, domain.TabMaps}

// ToUnifiedItem maps a provider item onto the single item shape
// consumed by every display tab. The mapping is deterministic: the
// thumbnail falls back to empty, the full-resolution URL falls back to
// the thumbnail, and the original record is retained for detail views.
func ToUnifiedItem(item domain.ContentItem) domain.UnifiedGalleryItem {
	full := item.MediaURL
	if full == "" {
		full = item.ThumbnailURL
	}
	return domain.UnifiedGalleryItem{
		ID:       item.ID,
		Thumb:    item.ThumbnailURL,
		Full:     full,
		Title:    item.Title,
		Date:     item.Date,
		Source:   item.Source,
		Original: item,
	}
}

// TabFor returns the display tab for a content type.
// The function is total: unknown types land in photos.
func TabFor(ct domain.ContentType) domain.GalleryTab {
	if tab, ok := tabByType[ct]; ok {
		return tab
	}
	return domain.TabPhotos
}

// GroupByTab partitions items into the eight fixed buckets. Every
// bucket is present in the result even when empty, and buckets never
// contain items belonging to another tab.
func GroupByTab(items []domain.ContentItem) domain.GroupedGallery {
	grouped := make(domain.GroupedGallery, len(domain.AllTabs))
	for _, tab := range domain.AllTabs {
		grouped[tab] = []domain.UnifiedGalleryItem{}
	}
	for _, item := range items {
		tab := TabFor(item.ContentType)
		grouped[tab] = append(grouped[tab], ToUnifiedItem(item))
	}
	return grouped
}

// SelectHero picks the single item representing an entity's best
// available image: the first item of the first non-empty bucket in
// priority order photos, artworks, maps. Returns nil when all three
// are empty.
func SelectHero(grouped domain.GroupedGallery) *domain.UnifiedGalleryItem {
	for _, tab := range heroOrder {
		if items := grouped[tab]; len(items) > 0 {
			hero := items[0]
			return &hero
		}
	}
	return nil
}

// Dedupe merges two item lists. Priority items are always retained in
// full and placed first. Other items are dropped when their title or
// full-resolution URL exactly matches any priority item's title or URL
// (case-insensitive); survivors keep their original order.
//
// This is set-membership dedup, not fuzzy matching: near-duplicate but
// non-identical titles and URLs are kept.
func Dedupe(priority, others []domain.UnifiedGalleryItem) []domain.UnifiedGalleryItem {
	seen := make(map[string]bool, len(priority)*2)
	for _, item := range priority {
		if item.Title != "" {
			seen[strings.ToLower(item.Title)] = true
		}
		if item.Full != "" {
			seen[strings.ToLower(item.Full)] = true
		}
	}

	merged := make([]domain.UnifiedGalleryItem, 0, len(priority)+len(others))
	merged = append(merged, priority...)

	for _, item := range others {
		if item.Title != "" && seen[strings.ToLower(item.Title)] {
			continue
		}
		if item.Full != "" && seen[strings.ToLower(item.Full)] {
			continue
		}
		merged = append(merged, item)
	}

	return merged
}
