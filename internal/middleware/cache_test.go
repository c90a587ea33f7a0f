package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/workspace-reservation/internal/config"
)

func cacheKeyForPath(cfg config.CacheConfig, method, target, routePattern string) string {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(routePattern)
	return cacheKeyFrom(cfg, c)
}

func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	cfg := config.CacheConfig{KeyStrategy: "route_query", Prefix: "cache"}

	// Two IDs on the same parameterized route must never share a key,
	// or one workspace's cached body would be served for the other.
	k1 := cacheKeyForPath(cfg, http.MethodGet, "/v1/workspaces/1", "/v1/workspaces/:id")
	k2 := cacheKeyForPath(cfg, http.MethodGet, "/v1/workspaces/2", "/v1/workspaces/:id")
	assert.NotEqual(t, k1, k2)

	// The same concrete request keys identically across calls.
	again := cacheKeyForPath(cfg, http.MethodGet, "/v1/workspaces/1", "/v1/workspaces/:id")
	assert.Equal(t, k1, again)
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	cfg := config.CacheConfig{KeyStrategy: "route_query", Prefix: "cache"}

	base := cacheKeyForPath(cfg, http.MethodGet, "/v1/workspaces", "/v1/workspaces")
	windowed := cacheKeyForPath(cfg, http.MethodGet, "/v1/workspaces?date=2026-03-14&start_time=09:00&end_time=10:00", "/v1/workspaces")
	assert.NotEqual(t, base, windowed, "different browse windows must not share a cached listing")

	// The route-only strategy intentionally ignores the query.
	routeOnly := config.CacheConfig{KeyStrategy: "route", Prefix: "cache"}
	a := cacheKeyForPath(routeOnly, http.MethodGet, "/v1/workspaces?date=2026-03-14", "/v1/workspaces")
	b := cacheKeyForPath(routeOnly, http.MethodGet, "/v1/workspaces?date=2026-03-15", "/v1/workspaces")
	assert.Equal(t, a, b)
}
