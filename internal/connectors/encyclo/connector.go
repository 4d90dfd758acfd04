// Package encyclo implements the Provider interface for the
// encyclopaedic-summary API and its companion ordered-media-list API.
//
// One search issues both calls: the summary supplies a text item and
// the page thumbnail, the media list supplies the ordered photos with
// license and artist metadata.
package encyclo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ancientnerds/relica/internal/connectors"
	"github.com/ancientnerds/relica/internal/connectors/querynorm"
	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
	"github.com/ancientnerds/relica/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Provider = (*Connector)(nil)

// summaryResponse is the summary API wire shape.
type summaryResponse struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	OriginalImage struct {
		Source string `json:"source"`
	} `json:"originalimage"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// mediaListResponse is the media-list API wire shape.
type mediaListResponse struct {
	Items []struct {
		Title  string `json:"title"`
		Type   string `json:"type"`
		SrcSet []struct {
			Src string `json:"src"`
		} `json:"srcset"`
		License struct {
			Type string `json:"type"`
		} `json:"license"`
		Artist struct {
			Text string `json:"text"`
		} `json:"artist"`
	} `json:"items"`
}

// Connector queries the encyclopaedic summary and media-list APIs.
type Connector struct {
	baseURL string
	http    *http.Client
	offline driving.OfflineController
	cache   *connectors.QueryCache
	limiter *connectors.RateLimiter
}

// New creates an encyclo connector.
func New(baseURL string, offline driving.OfflineController) *Connector {
	return &Connector{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		offline: offline,
		cache:   connectors.NewQueryCache(0),
		limiter: connectors.NewRateLimiter("encyclo"),
	}
}

// SetHTTPClient overrides the HTTP client. Useful for testing.
func (c *Connector) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// Name returns the provider identifier.
func (c *Connector) Name() string { return "encyclo" }

// Tier returns the tier this provider joins (photos and media).
func (c *Connector) Tier() int { return 1 }

// Search fetches the page summary and its ordered media list.
func (c *Connector) Search(ctx context.Context, query string, opts driven.ProviderOptions) ([]domain.ContentItem, error) {
	term := querynorm.Normalize(query)
	if term == "" {
		return []domain.ContentItem{}, nil
	}
	key := term + "|" + opts.Country

	if items, ok := c.cache.Get(key); ok {
		logger.Debug("encyclo cache hit for %q", term)
		return items, nil
	}

	if c.offline.IsOffline() {
		logger.Debug("encyclo offline, returning empty result for %q", term)
		return []domain.ContentItem{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	title := url.PathEscape(strings.ReplaceAll(term, " ", "_"))

	var summary summaryResponse
	rateLimited, err := c.getJSON(ctx, "/page/summary/"+title, &summary)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("encyclo summary failed for %q: %v", term, err)
		return []domain.ContentItem{}, nil
	}
	if rateLimited {
		logger.Warn("encyclo rate limited for %q, serving last cached value", term)
		if stale, ok := c.cache.GetStale(key); ok {
			return stale, nil
		}
		return []domain.ContentItem{}, nil
	}

	items := make([]domain.ContentItem, 0, 8)
	if summary.Extract != "" {
		items = append(items, domain.ContentItem{
			ID:           "encyclo-summary-" + term,
			Source:       "encyclo",
			ContentType:  domain.ContentText,
			Title:        summary.Title,
			URL:          summary.ContentURLs.Desktop.Page,
			ThumbnailURL: summary.Thumbnail.Source,
			MediaURL:     summary.OriginalImage.Source,
		})
	}

	// The media list is best-effort: a summary without media is still
	// a useful result.
	var media mediaListResponse
	if rl, err := c.getJSON(ctx, "/page/media-list/"+title, &media); err == nil && !rl {
		for i, m := range media.Items {
			if m.Type != "image" || len(m.SrcSet) == 0 {
				continue
			}
			items = append(items, domain.ContentItem{
				ID:           fmt.Sprintf("encyclo-media-%s-%d", term, i),
				Source:       "encyclo",
				ContentType:  domain.ContentPhoto,
				Title:        strings.TrimPrefix(m.Title, "File:"),
				URL:          summary.ContentURLs.Desktop.Page,
				ThumbnailURL: m.SrcSet[0].Src,
				MediaURL:     m.SrcSet[len(m.SrcSet)-1].Src,
				Creator:      m.Artist.Text,
				License:      m.License.Type,
			})
		}
	} else if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.cache.Set(key, items)
	logger.Debug("encyclo: %d items for %q", len(items), term)
	return items, nil
}

// getJSON issues one GET and decodes the body. The boolean reports
// provider-side rate limiting, which the caller handles via fallback.
func (c *Connector) getJSON(ctx context.Context, path string, out any) (rateLimited bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimit(resp)
		return true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: %s returned %d", domain.ErrProvider, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("%w: decoding %s: %v", domain.ErrProvider, path, err)
	}
	return false, nil
}
