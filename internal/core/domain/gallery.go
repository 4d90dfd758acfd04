package domain

// GalleryTab is a display category. The enumeration is closed; every
// content type maps onto exactly one tab. Tabs are independent ID
// namespaces, so cross-tab item ID collisions are permitted.
type GalleryTab string

const (
	// TabPhotos holds photos, videos, audio and plain texts.
	TabPhotos GalleryTab = "photos"
	// TabMaps holds historical and survey maps.
	TabMaps GalleryTab = "maps"
	// TabModels holds 3D models.
	TabModels GalleryTab = "3dmodels"
	// TabArtifacts holds museum artifact records.
	TabArtifacts GalleryTab = "artifacts"
	// TabArtworks holds paintings, drawings and engravings.
	TabArtworks GalleryTab = "artworks"
	// TabBooks holds digitised books.
	TabBooks GalleryTab = "books"
	// TabPapers holds academic papers.
	TabPapers GalleryTab = "papers"
	// TabMyths holds myth and legend texts.
	TabMyths GalleryTab = "myths"
)

// AllTabs lists the eight fixed tabs in display order.
var AllTabs = []GalleryTab{
	TabPhotos, TabMaps, TabModels, TabArtifacts,
	TabArtworks, TabBooks, TabPapers, TabMyths,
}

// UnifiedGalleryItem is the single item shape consumed by every
// downstream display tab. It is derived deterministically from a
// ContentItem and never mutated after creation.
type UnifiedGalleryItem struct {
	// ID is unique within one tab's result set for one entity fetch.
	ID string `json:"id"`

	// Thumb is the preview image URL, empty when unavailable.
	Thumb string `json:"thumb"`

	// Full is the full-resolution URL, falling back to the thumbnail.
	Full string `json:"full"`

	// Title is the display title.
	Title string `json:"title,omitempty"`

	// Date is the free-form date string.
	Date string `json:"date,omitempty"`

	// Source identifies the supplying provider.
	Source string `json:"source"`

	// Original retains the provider-specific record for detail views.
	Original ContentItem `json:"original"`
}

// GroupedGallery partitions unified items into the eight fixed tabs.
// Buckets never contain items belonging to another tab.
type GroupedGallery map[GalleryTab][]UnifiedGalleryItem
