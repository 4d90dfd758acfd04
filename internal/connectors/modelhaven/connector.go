// Package modelhaven implements the Provider interface for the 3D
// model catalogue search API.
//
// Catalogue search is noisy: a query for an amphitheatre returns game
// assets, unrelated sculptures and AI-generated filler. After
// retrieval every candidate is scored 0-100 against the normalised
// query; candidates below the threshold are discarded entirely and
// the survivors are sorted by descending score.
package modelhaven

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ancientnerds/relica/internal/connectors"
	"github.com/ancientnerds/relica/internal/connectors/querynorm"
	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
	"github.com/ancientnerds/relica/internal/logger"
)

// DefaultLimit caps model results per query.
const DefaultLimit = 24

// Ensure Connector implements the interface.
var _ driven.Provider = (*Connector)(nil)

// modelRecord is the provider's wire shape for one model.
type modelRecord struct {
	UID           string `json:"uid"`
	Name          string `json:"name"`
	ThumbnailURL  string `json:"thumbnail_url"`
	ViewerURL     string `json:"viewer_url"`
	EmbedURL      string `json:"embed_url"`
	License       string `json:"license"`
	IsAIGenerated bool   `json:"is_ai_generated"`
	Likes         int    `json:"likes"`
	Views         int    `json:"views"`
	Author        struct {
		Username   string `json:"username"`
		ProfileURL string `json:"profile_url"`
	} `json:"author"`
}

// searchResponse is the provider's wire envelope.
type searchResponse struct {
	Results []modelRecord `json:"results"`
}

// Connector searches the 3D model catalogue.
type Connector struct {
	baseURL string
	http    *http.Client
	offline driving.OfflineController
	cache   *connectors.QueryCache
	limiter *connectors.RateLimiter
}

// New creates a modelhaven connector.
func New(baseURL string, offline driving.OfflineController) *Connector {
	return &Connector{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		offline: offline,
		cache:   connectors.NewQueryCache(0),
		limiter: connectors.NewRateLimiter("modelhaven"),
	}
}

// SetHTTPClient overrides the HTTP client. Useful for testing.
func (c *Connector) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// Name returns the provider identifier.
func (c *Connector) Name() string { return "modelhaven" }

// Tier returns the tier this provider joins (3D models).
func (c *Connector) Tier() int { return 2 }

// Search fetches 3D models for a free-text query, keeping only
// candidates relevant to the normalised query.
func (c *Connector) Search(ctx context.Context, query string, opts driven.ProviderOptions) ([]domain.ContentItem, error) {
	term := querynorm.Normalize(query)
	if term == "" {
		return []domain.ContentItem{}, nil
	}
	key := term + "|" + opts.Country

	if items, ok := c.cache.Get(key); ok {
		logger.Debug("modelhaven cache hit for %q", term)
		return items, nil
	}

	if c.offline.IsOffline() {
		logger.Debug("modelhaven offline, returning empty result for %q", term)
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
	q.Set("categories", "cultural-heritage-history")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("modelhaven request failed: %v", err)
		return []domain.ContentItem{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimit(resp)
		logger.Warn("modelhaven rate limited for %q, serving last cached value", term)
		if stale, ok := c.cache.GetStale(key); ok {
			return stale, nil
		}
		return []domain.ContentItem{}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("modelhaven returned %d for %q", resp.StatusCode, term)
		return []domain.ContentItem{}, nil
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Warn("modelhaven malformed response for %q: %v", term, err)
		return []domain.ContentItem{}, nil
	}

	items := c.rank(body.Results, term, opts.Country)

	c.cache.Set(key, items)
	logger.Debug("modelhaven: %d of %d models kept for %q", len(items), len(body.Results), term)
	return items, nil
}

// rank scores, filters and sorts candidates.
func (c *Connector) rank(records []modelRecord, term, country string) []domain.ContentItem {
	type scored struct {
		item  domain.ContentItem
		score int
	}

	kept := make([]scored, 0, len(records))
	for _, rec := range records {
		if rec.IsAIGenerated {
			continue
		}
		score := Score(rec.Name, term, country)
		if score < ScoreThreshold {
			continue
		}
		item := toItem(rec)
		item.RelevanceScore = float64(score)
		kept = append(kept, scored{item: item, score: score})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	items := make([]domain.ContentItem, len(kept))
	for i, s := range kept {
		items[i] = s.item
	}
	return items
}

// toItem maps a provider record onto the shared item shape.
func toItem(rec modelRecord) domain.ContentItem {
	return domain.ContentItem{
		ID:           "modelhaven-" + rec.UID,
		Source:       "modelhaven",
		ContentType:  domain.ContentModel3D,
		Title:        rec.Name,
		URL:          rec.ViewerURL,
		ThumbnailURL: rec.ThumbnailURL,
		EmbedURL:     rec.EmbedURL,
		Creator:      rec.Author.Username,
		CreatorURL:   rec.Author.ProfileURL,
		License:      rec.License,
	}
}
