package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
)

func slotContext(e *echo.Echo, target string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/restaurants/:id/slots")
	return c
}

func TestCacheKeyUsesRequestPath(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	one := slotContext(e, "/v1/restaurants/1/slots?date=2026-03-16&party_size=2")
	two := slotContext(e, "/v1/restaurants/2/slots?date=2026-03-16&party_size=2")

	// Same route pattern, different restaurants: the keys must differ.
	assert.NotEqual(t, cacheKeyFrom(cfg, one), cacheKeyFrom(cfg, two))

	// The same request hashes to the same key.
	again := slotContext(e, "/v1/restaurants/1/slots?date=2026-03-16&party_size=2")
	assert.Equal(t, cacheKeyFrom(cfg, one), cacheKeyFrom(cfg, again))
}

func TestCacheKeyVariesByQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	e := echo.New()

	two := slotContext(e, "/v1/restaurants/1/slots?date=2026-03-16&party_size=2")
	four := slotContext(e, "/v1/restaurants/1/slots?date=2026-03-16&party_size=4")

	assert.NotEqual(t, cacheKeyFrom(cfg, two), cacheKeyFrom(cfg, four))
}

func TestCacheSkipsAuthenticatedRequests(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{http.MethodGet: true},
		Prefix:  "cache",
	}
	// The client is never dialed: the Authorization check short-circuits
	// before any Redis call.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	mw := NewRedisCache(cfg, rdb)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/my-reservations", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "private")
	})(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "private", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
