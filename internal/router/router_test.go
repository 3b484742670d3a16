package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database/dbtest"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
)

type switchPinger struct{ down atomic.Bool }

func (p *switchPinger) PingContext(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCacheOnlyWrapsCatalogRoutes(t *testing.T) {
	// Nothing listens on port 1, so every lookup is a miss and the cache
	// marks its responses with X-Cache: MISS.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := middleware.NewRedisCache(config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{http.MethodGet: true},
		TTL:     time.Minute,
		Prefix:  "test:cache",
	}, rdb)

	pinger := &switchPinger{}
	svc := catalog.NewService(repository.NewStore(dbtest.NewSQLite(t)))
	e := echo.New()
	router.RegisterRoutes(e, pinger)
	router.RegisterCatalog(e, handler.NewCatalogHandler(svc), "", cache)

	rec := get(e, "/api/genres")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("GET /api/genres = %d X-Cache=%q, want 200 MISS", rec.Code, rec.Header().Get("X-Cache"))
	}

	for _, path := range []string{"/healthz", "/metrics"} {
		if got := get(e, path).Header().Get("X-Cache"); got != "" {
			t.Errorf("GET %s X-Cache = %q, want no cache involvement", path, got)
		}
	}

	if rec := get(e, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthy status = %d", rec.Code)
	}
	pinger.down.Store(true)
	if rec := get(e, "/healthz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status after db went down = %d, want 503", rec.Code)
	}
}
