// Package oldmaps implements the Provider interface for the legacy
// historical map-image search API.
package oldmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ancientnerds/relica/internal/connectors"
	"github.com/ancientnerds/relica/internal/connectors/querynorm"
	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
	"github.com/ancientnerds/relica/internal/logger"
)

// DefaultLimit caps map results per query.
const DefaultLimit = 20

// Ensure Connector implements the interface.
var _ driven.Provider = (*Connector)(nil)

// mapRecord is the provider's wire shape for one map.
type mapRecord struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	DisplayName string `json:"display_name"`
	Year        int    `json:"year"`
	Author      string `json:"author"`
	Institution string `json:"institution"`
	ThumbURL    string `json:"thumb_url"`
	ImageMidURL string `json:"image_mid_url"`
	ImageURL    string `json:"image_url"`
	DetailURL   string `json:"detail_url"`
}

// searchResponse is the provider's wire envelope.
type searchResponse struct {
	Maps []mapRecord `json:"maps"`
}

// Connector searches the historical map-image API.
type Connector struct {
	baseURL string
	http    *http.Client
	offline driving.OfflineController
	cache   *connectors.QueryCache
	limiter *connectors.RateLimiter
}

// New creates an oldmaps connector.
func New(baseURL string, offline driving.OfflineController) *Connector {
	return &Connector{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		offline: offline,
		cache:   connectors.NewQueryCache(0),
		limiter: connectors.NewRateLimiter("oldmaps"),
	}
}

// SetHTTPClient overrides the HTTP client. Useful for testing.
func (c *Connector) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// Name returns the provider identifier.
func (c *Connector) Name() string { return "oldmaps" }

// Tier returns the tier this provider joins (maps and artifacts).
func (c *Connector) Tier() int { return 3 }

// Search fetches historical map images for a free-text query.
func (c *Connector) Search(ctx context.Context, query string, opts driven.ProviderOptions) ([]domain.ContentItem, error) {
	term := querynorm.Normalize(query)
	if term == "" {
		return []domain.ContentItem{}, nil
	}
	key := term + "|" + opts.Country

	if items, ok := c.cache.Get(key); ok {
		logger.Debug("oldmaps cache hit for %q", term)
		return items, nil
	}

	if c.offline.IsOffline() {
		logger.Debug("oldmaps offline, returning empty result for %q", term)
		return []domain.ContentItem{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := url.Values{}
	q.Set("q", term)
	q.Set("count", strconv.Itoa(limit))
	if opts.Country != "" {
		q.Set("country", opts.Country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("oldmaps request failed: %v", err)
		return []domain.ContentItem{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimit(resp)
		logger.Warn("oldmaps rate limited for %q, serving last cached value", term)
		if stale, ok := c.cache.GetStale(key); ok {
			return stale, nil
		}
		return []domain.ContentItem{}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("oldmaps returned %d for %q", resp.StatusCode, term)
		return []domain.ContentItem{}, nil
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Warn("oldmaps malformed response for %q: %v", term, err)
		return []domain.ContentItem{}, nil
	}

	items := make([]domain.ContentItem, 0, len(body.Maps))
	for _, rec := range body.Maps {
		items = append(items, toItem(rec))
	}

	c.cache.Set(key, items)
	logger.Debug("oldmaps: %d maps for %q", len(items), term)
	return items, nil
}

// toItem maps a provider record onto the shared item shape, picking
// the largest available size tier as the full-resolution media.
func toItem(rec mapRecord) domain.ContentItem {
	title := rec.Title
	if title == "" {
		title = rec.DisplayName
	}

	full := rec.ImageURL
	if full == "" {
		full = rec.ImageMidURL
	}

	var date string
	if rec.Year != 0 {
		date = strconv.Itoa(rec.Year)
	}

	return domain.ContentItem{
		ID:           "oldmaps-" + strconv.Itoa(rec.ID),
		Source:       "oldmaps",
		ContentType:  domain.ContentMap,
		Title:        title,
		URL:          rec.DetailURL,
		ThumbnailURL: rec.ThumbURL,
		MediaURL:     full,
		Creator:      rec.Author,
		Date:         date,
		Museum:       rec.Institution,
	}
}
