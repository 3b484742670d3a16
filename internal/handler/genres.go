package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/catalog"
)

// CreateGenre handles POST /api/genres.
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
    var req genreRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    g, err := h.Svc.CreateGenre(c.Request().Context(), catalog.GenreInput{Name: req.Name})
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, newGenreResponse(g))
}

// GetGenre handles GET /api/genres/:id.
func (h *CatalogHandler) GetGenre(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    g, err := h.Svc.GetGenre(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newGenreResponse(g))
}

// ListGenres handles GET /api/genres.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
    items, err := h.Svc.ListGenres(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, map[string]any{"items": mapSlice(items, newGenreResponse)})
}

// UpdateGenre handles PUT /api/genres/:id.
func (h *CatalogHandler) UpdateGenre(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    var req genreRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    g, err := h.Svc.UpdateGenre(c.Request().Context(), id, catalog.GenreInput{Name: req.Name})
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newGenreResponse(g))
}

// DeleteGenre handles DELETE /api/genres/:id.  Movies keep existing; only
// their link to the genre is dropped.
func (h *CatalogHandler) DeleteGenre(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    if err := h.Svc.DeleteGenre(c.Request().Context(), id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
