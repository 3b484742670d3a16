package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/movie-catalog/internal/logging"
    "github.com/iliyamo/movie-catalog/internal/utils"
)

// RequireRole rejects requests whose "role" (set by JWTAuth) is not one of
// roles with 403 Forbidden.  It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get("role").(string)
            if !allowed[role] {
                logging.Ctx(c.Request().Context()).Info().
                    Str("role", role).
                    Str("path", c.Request().URL.Path).
                    Msg("forbidden")
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// EditorOnly guards catalog writes: a valid token with the EDITOR role.
// With an empty secret the guard is disabled and writes are open.
func EditorOnly(secret string) []echo.MiddlewareFunc {
    if secret == "" {
        return nil
    }
    return []echo.MiddlewareFunc{JWTAuth(secret), RequireRole(utils.RoleEditor)}
}
