package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/roomatch/roomatch-backend/internal/config"
)

func newRateKeyCtx(t *testing.T, uid uint64) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/messages")
	if uid != 0 {
		c.Set("user_id", uid)
	}
	return c
}

func TestBuildRateKeySeparatesAuthenticatedUsers(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	// The limiter runs after JWTAuth on protected routes, so the default
	// strategy keys on the resolved caller and users behind one NAT'd
	// address get separate buckets.
	key := buildRateKey(cfg, newRateKeyCtx(t, 42))
	assert.Contains(t, key, "user:42")

	key = buildRateKey(cfg, newRateKeyCtx(t, 0))
	assert.Contains(t, key, "user:guest")
}

func TestTokenBucketDisabledIsPassThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") }, mw)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
