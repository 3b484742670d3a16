package handler // handler defines the HTTP handlers of the catalog API

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/catalog"
    "github.com/iliyamo/movie-catalog/internal/logging"
    "github.com/iliyamo/movie-catalog/internal/model"
    "github.com/iliyamo/movie-catalog/internal/validation"
)

// CatalogHandler exposes the catalog service over HTTP.  Every handler
// binds and validates the payload, calls exactly one service operation and
// maps the result through respondError.
type CatalogHandler struct {
    Svc *catalog.Service // Svc runs every catalog operation in its own transaction
}

// NewCatalogHandler constructs a CatalogHandler and panics if svc is nil.
func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
    if svc == nil {
        panic("nil service passed to NewCatalogHandler")
    }
    return &CatalogHandler{Svc: svc}
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

func invalidID(c echo.Context) error {
    return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
}

// bind decodes the JSON body into req and validates it.  The returned
// error is already suitable for respondError.
func bind(c echo.Context, req any) error {
    if err := c.Bind(req); err != nil {
        return errBadBody
    }
    if n, ok := req.(interface{ normalize() }); ok {
        n.normalize()
    }
    return c.Validate(req)
}

var errBadBody = errors.New("invalid request body")

// respondError writes the JSON error response for err:
// validation problems -> 400, missing entities -> 404, anything else -> 500.
func respondError(c echo.Context, err error) error {
    var verr *validation.Error
    switch {
    case errors.As(err, &verr):
        return c.JSON(http.StatusBadRequest, map[string]any{
            "error":  "validation failed",
            "fields": verr.Fields,
        })
    case errors.Is(err, errBadBody):
        return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
    case errors.Is(err, model.ErrNotFound):
        return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
    }
    logging.Ctx(c.Request().Context()).Error().Err(err).
        Str("method", c.Request().Method).
        Str("path", c.Path()).
        Msg("request failed")
    return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// emptyToNil maps a blank optional string to nil so "" and a missing field
// are stored the same way.
func emptyToNil(s *string) *string {
    if s == nil || strings.TrimSpace(*s) == "" {
        return nil
    }
    return s
}
