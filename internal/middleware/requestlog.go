package middleware

import (
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/logging"
    "github.com/iliyamo/movie-catalog/internal/metrics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id (the client's X-Request-ID or a new
// uuid), stores a logger carrying it in the request context, and logs one
// line per request with its status and latency.  It also feeds the HTTP
// metrics.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            id := req.Header.Get(RequestIDHeader)
            if id == "" {
                id = logging.NewRequestID()
            }
            c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
            c.Response().Header().Set(RequestIDHeader, id)

            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err) // lets echo write the response so the status below is final
            }
            elapsed := time.Since(start)

            status := c.Response().Status
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            metrics.ObserveHTTP(req.Method, route, status, elapsed)

            ev := logging.Ctx(c.Request().Context()).Info()
            if status >= 500 {
                ev = logging.Ctx(c.Request().Context()).Error().Err(err)
            }
            ev.Str("method", req.Method).
                Str("path", req.URL.Path).
                Str("route", route).
                Int("status", status).
                Dur("latency", elapsed).
                Str("remote_ip", c.RealIP()).
                Msg("request")
            return nil
        }
    }
}
