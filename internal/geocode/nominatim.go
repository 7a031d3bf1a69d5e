// Package geocode resolves place names to boundary geometries through
// Nominatim. The pipeline core never retries; lookup failures surface to
// the caller as-is.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/ZikZak134/Geozona/internal/core/config"
	"github.com/ZikZak134/Geozona/internal/core/observability"
)

// ErrPlaceNotFound reports a lookup that matched nothing.
var ErrPlaceNotFound = errors.New("geocode: place not found")

// Store is an optional shared response cache behind the in-process LRU.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	memory    *lru.Cache[string, []byte]
	store     Store
	ttl       time.Duration
	logger    *slog.Logger
}

func New(cfg config.GeocodeCfg, logger *slog.Logger, httpClient *http.Client, store Store) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 256
	}
	memory, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("geocode: build lru: %w", err)
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		memory:    memory,
		store:     store,
		ttl:       cfg.CacheTTL,
		logger:    logger,
	}, nil
}

// LookupBoundary resolves a place name to the raw GeoJSON geometry of its
// boundary. The result is cached in-process and, when a store is
// configured, shared through it.
func (c *Client) LookupBoundary(ctx context.Context, place string) ([]byte, error) {
	key := cacheKey(place)

	if geom, ok := c.memory.Get(key); ok {
		observability.ObserveGeocode("hit_memory")
		return geom, nil
	}
	if c.store != nil {
		geom, ok, err := c.store.Get(ctx, key)
		observability.ObserveGeocodeCache("get", err)
		if err != nil {
			c.logger.Warn("geocode store get failed", "err", err)
		} else if ok {
			observability.ObserveGeocode("hit_store")
			c.memory.Add(key, geom)
			return geom, nil
		}
	}

	geom, err := c.fetch(ctx, place)
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			observability.ObserveGeocode("not_found")
		} else {
			observability.ObserveGeocode("error")
		}
		return nil, err
	}
	observability.ObserveGeocode("ok")

	c.memory.Add(key, geom)
	if c.store != nil {
		err := c.store.Set(ctx, key, geom, c.ttl)
		observability.ObserveGeocodeCache("set", err)
		if err != nil {
			c.logger.Warn("geocode store set failed", "err", err)
		}
	}
	return geom, nil
}

func (c *Client) fetch(ctx context.Context, place string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":               {place},
		"format":          {"json"},
		"limit":           {"1"},
		"polygon_geojson": {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: lookup %q: %w", place, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: lookup %q: unexpected status %d", place, resp.StatusCode)
	}

	var results []struct {
		DisplayName string          `json:"display_name"`
		GeoJSON     json.RawMessage `json:"geojson"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 || len(results[0].GeoJSON) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrPlaceNotFound, place)
	}

	c.logger.Debug("place resolved", "place", place, "display_name", results[0].DisplayName)
	return results[0].GeoJSON, nil
}

func cacheKey(place string) string {
	return fmt.Sprintf("geozona:place:%016x", xxhash.Sum64String(place))
}
