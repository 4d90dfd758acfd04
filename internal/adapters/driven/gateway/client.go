// Package gateway implements the typed client for the unified backend
// aggregation endpoint.
//
// Every operation is offline-aware and memoised: when offline it
// returns an empty, well-formed response immediately; otherwise it
// consults the memo cache before issuing a single network call and
// storing the full typed response. Backend failures degrade to an
// empty response with a logged warning - a partial-failure response
// (non-empty SourcesFailed) is still a success and is returned as-is.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ancientnerds/relica/internal/adapters/driven/cache/memo"
	"github.com/ancientnerds/relica/internal/core/domain"
	"github.com/ancientnerds/relica/internal/core/ports/driven"
	"github.com/ancientnerds/relica/internal/core/ports/driving"
	"github.com/ancientnerds/relica/internal/logger"
)

// Endpoint paths on the aggregation backend.
const (
	endpointSearch     = "/content/search"
	endpointByLocation = "/content/by-location"
	endpointBySite     = "/content/by-site"
	endpointByEmpire   = "/content/by-empire"
	endpointSources    = "/content/sources"
	endpointTypes      = "/content/types"
)

// Ensure Client implements the interface.
var _ driven.Gateway = (*Client)(nil)

// Client talks to the unified aggregation backend.
type Client struct {
	baseURL string
	http    *http.Client
	memo    driven.MemoCache
	offline driving.OfflineController
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. Useful for testing.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a gateway client. The memo cache and offline controller
// are injected rather than held as package state so tests can build
// isolated instances.
func New(baseURL string, memoCache driven.MemoCache, offline driving.OfflineController, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		memo:    memoCache,
		offline: offline,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search performs a free-text aggregation search.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*domain.ContentSearchResponse, error) {
	params := map[string]any{"query": req.Query}
	addCommon(params, req.ContentTypes, req.Limit, req.TimeoutSeconds)
	return c.aggregate(ctx, endpointSearch, memo.Key(endpointSearch, params), params, req.Sources, req.TimeoutSeconds)
}

// ByLocation aggregates content near a coordinate.
func (c *Client) ByLocation(ctx context.Context, req domain.LocationRequest) (*domain.ContentSearchResponse, error) {
	params := map[string]any{"lat": req.Lat, "lon": req.Lon}
	if req.RadiusKm > 0 {
		params["radiusKm"] = req.RadiusKm
	}
	addCommon(params, req.ContentTypes, req.Limit, req.TimeoutSeconds)
	return c.aggregate(ctx, endpointByLocation, memo.Key(endpointByLocation, params), params, nil, req.TimeoutSeconds)
}

// BySite aggregates content for a named site.
func (c *Client) BySite(ctx context.Context, req domain.SiteRequest) (*domain.ContentSearchResponse, error) {
	params := siteParams(req)
	return c.aggregate(ctx, endpointBySite, memo.Key(endpointBySite, params), params, nil, req.TimeoutSeconds)
}

// BySiteTier is BySite with the tier's content types and timeout
// injected. The cache key is tier-qualified so tiers never collide.
func (c *Client) BySiteTier(ctx context.Context, req domain.SiteRequest, tier domain.Tier) (*domain.ContentSearchResponse, error) {
	req.ContentTypes = tier.ContentTypes
	req.TimeoutSeconds = int(tier.Timeout / time.Second)
	params := siteParams(req)
	key := memo.Key(tierEndpoint(endpointBySite, tier), params)
	return c.aggregate(ctx, endpointBySite, key, params, nil, req.TimeoutSeconds)
}

// ByEmpire aggregates content for a historical polity.
func (c *Client) ByEmpire(ctx context.Context, req domain.EmpireRequest) (*domain.ContentSearchResponse, error) {
	endpoint := endpointByEmpire + "/" + url.PathEscape(req.EmpireID)
	params := map[string]any{}
	addCommon(params, req.ContentTypes, req.Limit, req.TimeoutSeconds)
	return c.aggregate(ctx, endpoint, memo.Key(endpoint, params), params, nil, req.TimeoutSeconds)
}

// ByEmpireTier is ByEmpire with tier injection, mirroring BySiteTier.
func (c *Client) ByEmpireTier(ctx context.Context, req domain.EmpireRequest, tier domain.Tier) (*domain.ContentSearchResponse, error) {
	req.ContentTypes = tier.ContentTypes
	req.TimeoutSeconds = int(tier.Timeout / time.Second)
	endpoint := endpointByEmpire + "/" + url.PathEscape(req.EmpireID)
	params := map[string]any{}
	addCommon(params, req.ContentTypes, req.Limit, req.TimeoutSeconds)
	key := memo.Key(tierEndpoint(endpoint, tier), params)
	return c.aggregate(ctx, endpoint, key, params, nil, req.TimeoutSeconds)
}

// Sources lists the providers known to the backend.
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	if c.offline.IsOffline() {
		return []string{}, nil
	}
	var sources []string
	if err := c.getJSON(ctx, endpointSources, nil, 0, &sources); err != nil {
		logger.Warn("Gateway sources listing failed: %v", err)
		return []string{}, nil
	}
	return sources, nil
}

// Types lists the content types known to the backend.
func (c *Client) Types(ctx context.Context) ([]domain.ContentType, error) {
	if c.offline.IsOffline() {
		return []domain.ContentType{}, nil
	}
	var types []domain.ContentType
	if err := c.getJSON(ctx, endpointTypes, nil, 0, &types); err != nil {
		logger.Warn("Gateway types listing failed: %v", err)
		return []domain.ContentType{}, nil
	}
	return types, nil
}

// aggregate runs the shared offline -> memo -> network sequence for
// one aggregation operation.
func (c *Client) aggregate(
	ctx context.Context, endpoint, cacheKey string, params map[string]any,
	sources []string, timeoutSeconds int,
) (*domain.ContentSearchResponse, error) {
	// Offline short-circuits before the cache: a zero-cost empty
	// shape, no network, no memoisation.
	if c.offline.IsOffline() {
		logger.Debug("Gateway offline, returning empty response for %s", endpoint)
		return domain.EmptyResponse(), nil
	}

	if resp, ok := c.memo.Get(cacheKey); ok {
		logger.Debug("Gateway memo hit for %s", endpoint)
		return resp, nil
	}

	query := buildQuery(params)
	for _, s := range sources {
		query.Add("sources", s)
	}

	var resp domain.ContentSearchResponse
	if err := c.getJSONValues(ctx, endpoint, query, timeoutSeconds, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("Gateway %s failed: %v", endpoint, err)
		return domain.EmptyResponse(), nil
	}

	normalise(&resp)
	c.memo.Set(cacheKey, &resp)

	logger.Debug("Gateway %s: %d items from %d sources (%d failed) in %dms",
		endpoint, len(resp.Items), len(resp.SourcesSearched), len(resp.SourcesFailed), resp.SearchTimeMs)

	out := resp
	return &out, nil
}

// getJSON issues a GET with params built from a map.
func (c *Client) getJSON(ctx context.Context, endpoint string, params map[string]any, timeoutSeconds int, out any) error {
	return c.getJSONValues(ctx, endpoint, buildQuery(params), timeoutSeconds, out)
}

// getJSONValues issues a GET against the backend and decodes JSON.
func (c *Client) getJSONValues(ctx context.Context, endpoint string, query url.Values, timeoutSeconds int, out any) error {
	if timeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
		defer cancel()
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d", domain.ErrProvider, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrProvider, endpoint, err)
	}
	return nil
}

// siteParams builds the named query parameters of a site request.
func siteParams(req domain.SiteRequest) map[string]any {
	params := map[string]any{"name": req.Name}
	if req.Location != "" {
		params["location"] = req.Location
	}
	if req.Lat != 0 || req.Lon != 0 {
		params["lat"] = req.Lat
		params["lon"] = req.Lon
	}
	if req.Culture != "" {
		params["culture"] = req.Culture
	}
	addCommon(params, req.ContentTypes, req.Limit, req.TimeoutSeconds)
	return params
}

// addCommon adds the parameters shared by every aggregation request.
func addCommon(params map[string]any, types []domain.ContentType, limit, timeoutSeconds int) {
	if len(types) > 0 {
		strs := make([]string, len(types))
		for i, t := range types {
			strs[i] = string(t)
		}
		params["contentTypes"] = strs
	}
	if limit > 0 {
		params["limit"] = limit
	}
	if timeoutSeconds > 0 {
		params["timeout"] = timeoutSeconds
	}
}

// tierEndpoint qualifies an endpoint with the tier number for cache
// keying, so identical site params in different tiers never collide.
func tierEndpoint(endpoint string, tier domain.Tier) string {
	return endpoint + "|tier=" + strconv.Itoa(tier.Number)
}

// buildQuery converts a params map into URL query values.
// Array-valued parameters repeat per value.
func buildQuery(params map[string]any) url.Values {
	query := url.Values{}
	for k, v := range params {
		switch val := v.(type) {
		case string:
			query.Set(k, val)
		case int:
			query.Set(k, strconv.Itoa(val))
		case float64:
			query.Set(k, strconv.FormatFloat(val, 'f', -1, 64))
		case []string:
			for _, s := range val {
				query.Add(k, s)
			}
		default:
			query.Set(k, fmt.Sprintf("%v", val))
		}
	}
	return query
}

// normalise fills nil collection fields so cached copies always carry
// a well-formed shape.
func normalise(resp *domain.ContentSearchResponse) {
	if resp.Items == nil {
		resp.Items = []domain.ContentItem{}
	}
	if resp.SourcesSearched == nil {
		resp.SourcesSearched = []string{}
	}
	if resp.SourcesFailed == nil {
		resp.SourcesFailed = []string{}
	}
	if resp.ItemsBySource == nil {
		resp.ItemsBySource = map[string]int{}
	}
}
