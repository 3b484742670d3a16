package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// CreateMovie handles POST /api/movies.  The director and every genre in
// genre_ids must already exist.
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
    var req movieRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    m, err := h.Svc.CreateMovie(c.Request().Context(), req.input())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, newMovieResponse(m))
}

// GetMovie handles GET /api/movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    m, err := h.Svc.GetMovie(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newMovieResponse(m))
}

// ListMovies handles GET /api/movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
    items, err := h.Svc.ListMovies(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, map[string]any{"items": mapSlice(items, newMovieResponse)})
}

// UpdateMovie handles PUT /api/movies/:id.  genre_ids replaces the genre
// set; omitting it clears the set.
func (h *CatalogHandler) UpdateMovie(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    var req movieRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    m, err := h.Svc.UpdateMovie(c.Request().Context(), id, req.input())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newMovieResponse(m))
}

// DeleteMovie handles DELETE /api/movies/:id.
func (h *CatalogHandler) DeleteMovie(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    if err := h.Svc.DeleteMovie(c.Request().Context(), id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// Recommendations handles GET /api/movies/:id/recommendations and returns
// at most five movies sharing a genre with the given one.
func (h *CatalogHandler) Recommendations(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    items, err := h.Svc.Recommend(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, map[string]any{"items": mapSlice(items, newMovieResponse)})
}
