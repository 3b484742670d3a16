package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// CreateDirector handles POST /api/directors.
func (h *CatalogHandler) CreateDirector(c echo.Context) error {
    var req directorRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    d, err := h.Svc.CreateDirector(c.Request().Context(), req.input())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, newDirectorResponse(d))
}

// GetDirector handles GET /api/directors/:id.
func (h *CatalogHandler) GetDirector(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    d, err := h.Svc.GetDirector(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newDirectorResponse(d))
}

// ListDirectors handles GET /api/directors.
func (h *CatalogHandler) ListDirectors(c echo.Context) error {
    items, err := h.Svc.ListDirectors(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, map[string]any{"items": mapSlice(items, newDirectorResponse)})
}

// UpdateDirector handles PUT /api/directors/:id and replaces every field.
func (h *CatalogHandler) UpdateDirector(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    var req directorRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    d, err := h.Svc.UpdateDirector(c.Request().Context(), id, req.input())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newDirectorResponse(d))
}

// DeleteDirector handles DELETE /api/directors/:id.  The director's movies
// and their reviews are removed with it.
func (h *CatalogHandler) DeleteDirector(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    if err := h.Svc.DeleteDirector(c.Request().Context(), id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

