package middleware

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "golang.org/x/time/rate"

    "github.com/iliyamo/movie-catalog/internal/config"
    "github.com/iliyamo/movie-catalog/internal/logging"
    "github.com/iliyamo/movie-catalog/internal/metrics"
)

// NewTokenBucket limits requests per key (see buildRateKey).  The bucket
// lives in Redis and is updated atomically by a Lua script.  Without Redis,
// or when a script call fails, the in-process limiter takes over if
// cfg.LocalFallback is set; otherwise the request is let through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }
    var local *localLimiter
    if cfg.LocalFallback {
        local = newLocalLimiter(cfg)
    }
    if rdb == nil {
        if local == nil {
            return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
        }
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error {
                return local.serve(c, next, buildRateKey(cfg, c))
            }
        }
    }

    limiterScript := redis.NewScript(`
        local key = KEYS[1]
        local now_ms = tonumber(ARGV[1])
        local capacity = tonumber(ARGV[2])
        local refill_tokens = tonumber(ARGV[3])
        local interval_ms = tonumber(ARGV[4])
        local ttl_seconds = tonumber(ARGV[5])

        local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
        local tokens = tonumber(state[1])
        local last_refill = tonumber(state[2])

        if tokens == nil or last_refill == nil then
            tokens = capacity
            last_refill = now_ms
        end

        if interval_ms > 0 and refill_tokens > 0 then
            local elapsed = math.max(0, now_ms - last_refill)
            local intervals = math.floor(elapsed / interval_ms)
            if intervals > 0 then
                tokens = math.min(capacity, tokens + (intervals * refill_tokens))
                last_refill = last_refill + (intervals * interval_ms)
            end
        end

        local allowed = 0
        local retry_after_ms = 0
        if tokens > 0 then
            allowed = 1
            tokens = tokens - 1
        else
            local until_next = interval_ms - (now_ms - last_refill)
            if until_next < 0 then until_next = 0 end
            retry_after_ms = until_next
        end

        redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
        redis.call('EXPIRE', key, ttl_seconds)

        return { allowed, tokens, retry_after_ms }
    `)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            now := time.Now()

            args := []interface{}{
                now.UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL / time.Second),
            }

            ctx := c.Request().Context()
            vals, err := limiterScript.Run(ctx, rdb, []string{key}, args...).Result()
            if err != nil {
                if cfg.Debug {
                    logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("ratelimit: redis error")
                }
                if local != nil {
                    return local.serve(c, next, key)
                }
                return next(c)
            }

            allowed := false
            remaining := int64(0)
            retryMs := int64(0)

            if arr, ok := vals.([]interface{}); ok && len(arr) == 3 {
                if i, ok := arr[0].(int64); ok { allowed = (i == 1) } else { allowed = fmt.Sprint(arr[0]) == "1" }
                remaining = asInt64(arr[1])
                retryMs = asInt64(arr[2])
            } else {
                if cfg.Debug {
                    logging.Ctx(ctx).Warn().Str("key", key).Interface("result", vals).Msg("ratelimit: unexpected script result")
                }
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if !allowed {
                secs := int(math.Ceil(float64(retryMs) / 1000.0))
                if secs < 0 { secs = 0 }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                if cfg.Debug {
                    logging.Ctx(ctx).Info().Str("key", key).Int64("remaining", remaining).Int64("retry_ms", retryMs).Msg("ratelimit: blocked")
                }
                metrics.RateLimitRejections.WithLabelValues("redis").Inc()
                return tooManyRequests(c, secs)
            }

            if cfg.Debug {
                c.Response().Header().Set("X-RateLimit-Key", key)
            }
            return next(c)
        }
    }
}

func tooManyRequests(c echo.Context, retrySecs int) error {
    return c.JSON(http.StatusTooManyRequests, map[string]any{
        "error":       "too_many_requests",
        "message":     "rate limit exceeded",
        "retry_after": retrySecs,
    })
}

// localLimiter is the in-process token bucket used without Redis.  Idle
// buckets are swept once per TTL.
type localLimiter struct {
    mu        sync.Mutex
    buckets   map[string]*localBucket
    limit     rate.Limit
    burst     int
    ttl       time.Duration
    lastSweep time.Time
}

type localBucket struct {
    limiter    *rate.Limiter
    lastAccess time.Time
}

func newLocalLimiter(cfg config.RateLimitConfig) *localLimiter {
    return &localLimiter{
        buckets:   make(map[string]*localBucket),
        limit:     rate.Every(cfg.RefillInterval / time.Duration(cfg.RefillTokens)),
        burst:     cfg.Capacity,
        ttl:       cfg.TTL,
        lastSweep: time.Now(),
    }
}

// reserve takes a token for key and reports whether the request may pass
// and, if not, how long until the next token.
func (l *localLimiter) reserve(key string, now time.Time) (bool, int, time.Duration) {
    l.mu.Lock()
    if now.Sub(l.lastSweep) > l.ttl {
        for k, b := range l.buckets {
            if now.Sub(b.lastAccess) > l.ttl {
                delete(l.buckets, k)
            }
        }
        l.lastSweep = now
    }
    b, ok := l.buckets[key]
    if !ok {
        b = &localBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
        l.buckets[key] = b
    }
    b.lastAccess = now
    lim := b.limiter
    l.mu.Unlock()

    if lim.AllowN(now, 1) {
        return true, int(lim.TokensAt(now)), 0
    }
    r := lim.ReserveN(now, 1)
    wait := r.DelayFrom(now)
    r.CancelAt(now)
    return false, 0, wait
}

func (l *localLimiter) serve(c echo.Context, next echo.HandlerFunc, key string) error {
    allowed, remaining, wait := l.reserve(key, time.Now())
    c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
    c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
    if !allowed {
        secs := int(math.Ceil(wait.Seconds()))
        c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
        metrics.RateLimitRejections.WithLabelValues("local").Inc()
        return tooManyRequests(c, secs)
    }
    return next(c)
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int32: return int64(t)
    case int: return int64(t)
    case float64: return int64(t)
    case float32: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    strategy := strings.ToLower(cfg.KeyStrategy)
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }
    uid := currentUserID(c)
    route := c.Request().Method + " " + c.Path()

    switch strategy {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_user":
        parts = append(parts, "ip", ip, "user", uid)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default:
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}

func currentUserID(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        if s, ok := v.(string); ok && s != "" { return s }
    }
    if v := c.Get("userID"); v != nil {
        if s, ok := v.(string); ok && s != "" { return s }
    }
    return "anon"
}
