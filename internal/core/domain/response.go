package domain

// ContentSearchResponse is the typed response of the unified backend
// aggregation endpoint. A partial-failure response (non-empty
// SourcesFailed) is still a success: callers must read SourcesFailed
// rather than treat it as an error.
type ContentSearchResponse struct {
	// Items are the aggregated content items, ordered by the backend.
	Items []ContentItem `json:"items"`

	// TotalCount is the total number of items found.
	TotalCount int `json:"totalCount"`

	// SourcesSearched lists every provider the backend queried.
	SourcesSearched []string `json:"sourcesSearched"`

	// SourcesFailed lists providers that errored or timed out.
	SourcesFailed []string `json:"sourcesFailed"`

	// ItemsBySource counts items per provider.
	ItemsBySource map[string]int `json:"itemsBySource"`

	// SearchTimeMs is the backend-side aggregation time.
	SearchTimeMs int64 `json:"searchTimeMs"`

	// Cached is true when this response was served from the memo
	// cache, so consumers can skip loading indicators. It is set on
	// the returned copy, never on the stored entry.
	Cached bool `json:"cached,omitempty"`
}

// EmptyResponse returns the zero-cost well-formed response shape used
// when offline. Every field is present and empty rather than nil-ish
// so downstream consumers never special-case it.
func EmptyResponse() *ContentSearchResponse {
	return &ContentSearchResponse{
		Items:           []ContentItem{},
		SourcesSearched: []string{},
		SourcesFailed:   []string{},
		ItemsBySource:   map[string]int{},
	}
}

// SearchRequest parameterises a free-text aggregation search.
type SearchRequest struct {
	// Query is the free-text search term.
	Query string

	// ContentTypes restricts results to these types. Empty means all.
	ContentTypes []ContentType

	// Sources restricts the providers searched. Empty means all.
	Sources []string

	// Limit caps the number of items returned.
	Limit int

	// TimeoutSeconds bounds the backend-side aggregation.
	TimeoutSeconds int
}

// LocationRequest parameterises a coordinate-based lookup.
type LocationRequest struct {
	Lat            float64
	Lon            float64
	RadiusKm       float64
	ContentTypes   []ContentType
	Limit          int
	TimeoutSeconds int
}

// SiteRequest parameterises a site lookup by name and coordinates.
type SiteRequest struct {
	// Name is the site name.
	Name string

	// Location is an optional disambiguating place name.
	Location string

	Lat float64
	Lon float64

	// Culture is the associated culture or civilisation, if known.
	Culture string

	ContentTypes   []ContentType
	Limit          int
	TimeoutSeconds int
}

// EmpireRequest parameterises a historical polity lookup.
type EmpireRequest struct {
	// EmpireID is the polity identifier.
	EmpireID string

	ContentTypes   []ContentType
	Limit          int
	TimeoutSeconds int
}
