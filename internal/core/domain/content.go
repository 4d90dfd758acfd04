package domain

// ContentType classifies a piece of media. The taxonomy is closed:
// every provider item is mapped onto exactly one of these values.
type ContentType string

const (
	// ContentPhoto is a photograph of the site or its finds.
	ContentPhoto ContentType = "photo"
	// ContentVideo is a video clip.
	ContentVideo ContentType = "video"
	// ContentAudio is an audio recording.
	ContentAudio ContentType = "audio"
	// ContentModel3D is an interactive 3D model.
	ContentModel3D ContentType = "3d_model"
	// ContentMap is a historical or survey map image.
	ContentMap ContentType = "map"
	// ContentArtifact is a museum artifact record.
	ContentArtifact ContentType = "artifact"
	// ContentArtwork is a painting, drawing or engraving.
	ContentArtwork ContentType = "artwork"
	// ContentBook is a digitised book.
	ContentBook ContentType = "book"
	// ContentPaper is an academic paper.
	ContentPaper ContentType = "paper"
	// ContentMyth is a myth or legend text.
	ContentMyth ContentType = "myth"
	// ContentText is a plain encyclopaedic text.
	ContentText ContentType = "text"
)

// AllContentTypes lists every valid content type.
var AllContentTypes = []ContentType{
	ContentPhoto, ContentVideo, ContentAudio, ContentModel3D,
	ContentMap, ContentArtifact, ContentArtwork, ContentBook,
	ContentPaper, ContentMyth, ContentText,
}

// ContentItem is a single piece of media from one provider.
// Items are immutable once received; nothing in the pipeline mutates them.
type ContentItem struct {
	// ID is the provider-scoped item identifier.
	ID string `json:"id"`

	// Source identifies the provider that supplied this item.
	Source string `json:"source"`

	// ContentType classifies the media.
	ContentType ContentType `json:"contentType"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// URL is the canonical page for the item.
	URL string `json:"url"`

	// ThumbnailURL is a small preview image, if the provider supplies one.
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	// MediaURL is the full-resolution media, if available.
	MediaURL string `json:"mediaUrl,omitempty"`

	// EmbedURL is an embeddable viewer URL (3D models, videos).
	EmbedURL string `json:"embedUrl,omitempty"`

	// Creator is the author or photographer.
	Creator string `json:"creator,omitempty"`

	// CreatorURL links to the creator's page.
	CreatorURL string `json:"creatorUrl,omitempty"`

	// Date is the creation or publication date, free-form.
	Date string `json:"date,omitempty"`

	// License is the license short name.
	License string `json:"license,omitempty"`

	// Museum is the holding institution for artifact records.
	Museum string `json:"museum,omitempty"`

	// RelevanceScore is source-supplied and used only for display
	// ordering, never for deduplication.
	RelevanceScore float64 `json:"relevanceScore"`
}
