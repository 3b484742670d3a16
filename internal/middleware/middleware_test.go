package middleware

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/config"
    "github.com/iliyamo/movie-catalog/internal/utils"
)

func newContext(e *echo.Echo, method, target string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(method, target, nil)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestCacheKeyFrom(t *testing.T) {
    e := echo.New()
    cfg := config.CacheConfig{Prefix: "catalog:cache", KeyStrategy: "route_query"}

    c1, _ := newContext(e, http.MethodGet, "/api/movies/1")
    c2, _ := newContext(e, http.MethodGet, "/api/movies/2")
    c3, _ := newContext(e, http.MethodGet, "/api/movies/1")

    k1, k2, k3 := cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c2), cacheKeyFrom(cfg, c3)
    if k1 == k2 {
        t.Error("different paths must not share a cache key")
    }
    if k1 != k3 {
        t.Error("cache key must be stable for the same request")
    }
    if !strings.HasPrefix(k1, "catalog:cache:") {
        t.Errorf("key %q lacks prefix", k1)
    }
}

func TestDecodePayload(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
    if err != nil {
        t.Fatal(err)
    }
    status, gotHdr, body, ok := decodePayload(bs)
    if !ok || status != http.StatusOK || string(body) != `{"items":[]}` || gotHdr.Get("Content-Type") != "application/json" {
        t.Errorf("decodePayload() = %d %v %q %v", status, gotHdr, body, ok)
    }

    for _, bad := range [][]byte{nil, {0, 0, 0}, {0, 0, 0, 200, 0, 0, 1, 0}} {
        if _, _, _, ok := decodePayload(bad); ok {
            t.Errorf("decodePayload(%v) should fail", bad)
        }
    }
}

func TestCaptureWriterCountsPastLimit(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
    _, _ = cw.Write([]byte("abcd"))
    _, _ = cw.Write([]byte("ef"))

    if cw.size != 6 {
        t.Errorf("size = %d, want 6", cw.size)
    }
    if cw.size <= cw.limit {
        t.Error("overflowing body must exceed the limit")
    }
    if cw.buf.String() != "abcd" {
        t.Errorf("buffered = %q, want %q", cw.buf.String(), "abcd")
    }
    if rec.Body.String() != "abcdef" {
        t.Errorf("client got %q, want full body", rec.Body.String())
    }
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
    e := echo.New()
    mw := NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil)
    c, rec := newContext(e, http.MethodGet, "/api/genres")
    err := mw(func(c echo.Context) error { return c.String(http.StatusOK, "x") })(c)
    if err != nil || rec.Body.String() != "x" || rec.Header().Get("X-Cache") != "" {
        t.Errorf("cache without redis should pass through: err=%v body=%q", err, rec.Body.String())
    }
}

func TestBuildRateKey(t *testing.T) {
    e := echo.New()
    c, _ := newContext(e, http.MethodPost, "/api/movies")
    c.SetPath("/api/movies")
    key := buildRateKey(config.RateLimitConfig{Prefix: "catalog:rl", KeyStrategy: "ip_route"}, c)
    if key != "catalog:rl:ip:192.0.2.1:route:POST /api/movies" {
        t.Errorf("buildRateKey() = %q", key)
    }
}

func TestLocalLimiter(t *testing.T) {
    l := newLocalLimiter(config.RateLimitConfig{
        Capacity: 2, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute,
    })
    now := time.Now()
    for i := 0; i < 2; i++ {
        if ok, _, _ := l.reserve("k", now); !ok {
            t.Fatalf("request %d should pass", i+1)
        }
    }
    ok, _, wait := l.reserve("k", now)
    if ok {
        t.Fatal("third request should be limited")
    }
    if wait <= 0 || wait > time.Second {
        t.Errorf("wait = %s, want (0, 1s]", wait)
    }
    if ok, _, _ := l.reserve("other", now); !ok {
        t.Error("buckets must be per key")
    }
    if ok, _, _ := l.reserve("k", now.Add(time.Second)); !ok {
        t.Error("bucket should refill after the interval")
    }
}

func TestTokenBucketLocalFallback(t *testing.T) {
    e := echo.New()
    mw := NewTokenBucket(config.RateLimitConfig{
        Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute,
        TTL: time.Hour, KeyStrategy: "ip", Prefix: "t", LocalFallback: true,
    }, nil)
    h := mw(func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

    c, rec := newContext(e, http.MethodGet, "/api/genres")
    _ = h(c)
    if rec.Code != http.StatusNoContent {
        t.Fatalf("first status = %d", rec.Code)
    }
    c, rec = newContext(e, http.MethodGet, "/api/genres")
    _ = h(c)
    if rec.Code != http.StatusTooManyRequests {
        t.Fatalf("second status = %d, want 429", rec.Code)
    }
    if rec.Header().Get("Retry-After") == "" {
        t.Error("Retry-After missing")
    }
}

func TestEditorOnly(t *testing.T) {
    if mws := EditorOnly(""); mws != nil {
        t.Fatal("empty secret should disable the guard")
    }

    e := echo.New()
    e.POST("/w", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, EditorOnly("s3cret")...)

    editor, _ := utils.NewAccessToken("s3cret", "ed", utils.RoleEditor, time.Hour)
    viewer, _ := utils.NewAccessToken("s3cret", "vi", "VIEWER", time.Hour)

    tests := []struct {
        name string
        auth string
        want int
    }{
        {"no token", "", http.StatusUnauthorized},
        {"bad token", "Bearer nope", http.StatusUnauthorized},
        {"wrong role", "Bearer " + viewer.Token, http.StatusForbidden},
        {"editor", "Bearer " + editor.Token, http.StatusNoContent},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodPost, "/w", nil)
            if tt.auth != "" {
                req.Header.Set("Authorization", tt.auth)
            }
            rec := httptest.NewRecorder()
            e.ServeHTTP(rec, req)
            if rec.Code != tt.want {
                t.Errorf("status = %d, want %d", rec.Code, tt.want)
            }
        })
    }
}

func TestRequestLoggerSetsID(t *testing.T) {
    e := echo.New()
    e.Use(RequestLogger())
    e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
    if rec.Header().Get(RequestIDHeader) == "" {
        t.Error("generated request id missing")
    }

    req := httptest.NewRequest(http.MethodGet, "/x", nil)
    req.Header.Set(RequestIDHeader, "abc")
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if got := rec.Header().Get(RequestIDHeader); got != "abc" {
        t.Errorf("request id = %q, want abc", got)
    }
}
