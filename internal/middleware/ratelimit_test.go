package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefmap/relief-camps/internal/config"
)

func newContext(method, path string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestNewTokenBucket_DisabledIsPassthrough(t *testing.T) {
	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusNoContent)
	}

	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)
	c := newContext(http.MethodPost, "/api/camps")

	require.NoError(t, mw(next)(c))
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey_Strategies(t *testing.T) {
	c := newContext(http.MethodPost, "/api/camps")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:203.0.113.7"},
		{"route", "rl:route:POST /api/camps"},
		{"ip_route", "rl:ip:203.0.113.7:route:POST /api/camps"},
		{"", "rl:ip:203.0.113.7:route:POST /api/camps"},
		{"IP", "rl:ip:203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
			assert.Equal(t, tt.want, buildRateKey(cfg, c))
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 0, retryAfterSeconds(-10))
	assert.Equal(t, 0, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(1))
	assert.Equal(t, 2, retryAfterSeconds(1500))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(7), asInt64("7"))
	assert.Equal(t, int64(3), asInt64(3.9))
	assert.Equal(t, int64(0), asInt64([]byte("x")))
}

func limitedServer(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.POST("/api/camps", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]bool{"ok": true})
	}, NewTokenBucket(cfg, rdb))
	return e
}

func post(e *echo.Echo) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/camps", nil))
	return rec
}

func bucketConfig(capacity int, every time.Duration) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: every,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestNewTokenBucket_BlocksWhenEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	e := limitedServer(t, bucketConfig(1, time.Hour), rdb)

	first := post(e)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := post(e)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "3600", second.Header().Get("Retry-After"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "Too many requests", body["error"])
	assert.EqualValues(t, 3600, body["retry_after"])

	key := "rl:ip:192.0.2.1:route:POST /api/camps"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))
}

func TestNewTokenBucket_Refills(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	e := limitedServer(t, bucketConfig(2, 250*time.Millisecond), rdb)

	assert.Equal(t, http.StatusCreated, post(e).Code)
	assert.Equal(t, http.StatusCreated, post(e).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(e).Code)

	time.Sleep(600 * time.Millisecond)

	assert.Equal(t, http.StatusCreated, post(e).Code)
}

func TestNewTokenBucket_FailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	e := limitedServer(t, bucketConfig(1, time.Hour), rdb)
	mr.Close()

	for i := 0; i < 3; i++ {
		rec := post(e)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}
