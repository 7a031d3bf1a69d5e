package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/ZikZak134/Geozona/internal/core/config"
)

const polygonResponse = `[{"display_name":"Testville","geojson":{"type":"Polygon","coordinates":[[[30.0,59.0],[30.1,59.0],[30.1,59.1],[30.0,59.0]]]}}]`

func newServer(t *testing.T, body string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("polygon_geojson"); got != "1" {
			t.Errorf("polygon_geojson=%q want 1", got)
		}
		if ua := r.Header.Get("User-Agent"); ua != "geozona-test/1.0" {
			t.Errorf("user-agent=%q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string, store Store) *Client {
	t.Helper()
	c, err := New(config.GeocodeCfg{
		BaseURL:        baseURL,
		UserAgent:      "geozona-test/1.0",
		RequestsPerSec: 100,
		Timeout:        time.Second,
		CacheSize:      8,
		CacheTTL:       time.Minute,
	}, nil, nil, store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestLookupBoundary_ReturnsGeometry(t *testing.T) {
	srv := newServer(t, polygonResponse, nil)
	c := newClient(t, srv.URL, nil)

	geom, err := c.LookupBoundary(context.Background(), "Testville")
	if err != nil {
		t.Fatalf("LookupBoundary: %v", err)
	}
	if len(geom) == 0 {
		t.Fatal("empty geometry")
	}
}

func TestLookupBoundary_MemoryCacheAvoidsSecondRequest(t *testing.T) {
	var hits atomic.Int64
	srv := newServer(t, polygonResponse, &hits)
	c := newClient(t, srv.URL, nil)

	ctx := context.Background()
	if _, err := c.LookupBoundary(ctx, "Testville"); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if _, err := c.LookupBoundary(ctx, "Testville"); err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("upstream hits=%d want 1", n)
	}
}

func TestLookupBoundary_NotFound(t *testing.T) {
	srv := newServer(t, `[]`, nil)
	c := newClient(t, srv.URL, nil)

	_, err := c.LookupBoundary(context.Background(), "nowhere-at-all")
	if !errors.Is(err, ErrPlaceNotFound) {
		t.Fatalf("err=%v want ErrPlaceNotFound", err)
	}
}

func TestLookupBoundary_RedisStoreSharesAcrossClients(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)

	store, err := NewRedisStore(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var hits atomic.Int64
	srv := newServer(t, polygonResponse, &hits)

	first := newClient(t, srv.URL, store)
	if _, err := first.LookupBoundary(ctx, "Testville"); err != nil {
		t.Fatalf("first client lookup: %v", err)
	}

	second := newClient(t, srv.URL, store)
	if _, err := second.LookupBoundary(ctx, "Testville"); err != nil {
		t.Fatalf("second client lookup: %v", err)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("upstream hits=%d want 1", n)
	}
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx := context.Background()
	store, err := NewRedisStore(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Set(ctx, "geozona:place:test", []byte("v"), 2*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "geozona:place:test"); !ok {
		t.Fatal("expected key before expiry")
	}

	mr.FastForward(3 * time.Second)

	if _, ok, _ := store.Get(ctx, "geozona:place:test"); ok {
		t.Fatal("expected key to expire")
	}
}

func TestCacheKey_Stable(t *testing.T) {
	a := cacheKey("Oslo")
	b := cacheKey("Oslo")
	if a != b {
		t.Fatalf("cacheKey not stable: %q vs %q", a, b)
	}
	if a == cacheKey("Bergen") {
		t.Fatal("distinct places share a key")
	}
}
