package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// CreateReview handles POST /api/reviews.  created_at is assigned by the
// server.
func (h *CatalogHandler) CreateReview(c echo.Context) error {
    var req reviewRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    r, err := h.Svc.CreateReview(c.Request().Context(), req.input())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, newReviewResponse(r))
}

// GetReview handles GET /api/reviews/:id.
func (h *CatalogHandler) GetReview(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    r, err := h.Svc.GetReview(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newReviewResponse(r))
}

// ListReviews handles GET /api/reviews.
func (h *CatalogHandler) ListReviews(c echo.Context) error {
    items, err := h.Svc.ListReviews(c.Request().Context())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, map[string]any{"items": mapSlice(items, newReviewResponse)})
}

// UpdateReview handles PUT /api/reviews/:id.  created_at is preserved.
func (h *CatalogHandler) UpdateReview(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    var req reviewRequest
    if err := bind(c, &req); err != nil {
        return respondError(c, err)
    }
    r, err := h.Svc.UpdateReview(c.Request().Context(), id, req.input())
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, newReviewResponse(r))
}

// DeleteReview handles DELETE /api/reviews/:id.
func (h *CatalogHandler) DeleteReview(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return invalidID(c)
    }
    if err := h.Svc.DeleteReview(c.Request().Context(), id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ReviewsByMovie handles GET /api/reviews/movie/:movieId.  An unknown movie
// yields an empty list.
func (h *CatalogHandler) ReviewsByMovie(c echo.Context) error {
    id, ok := parseID(c, "movieId")
    if !ok {
        return invalidID(c)
    }
    items, err := h.Svc.ReviewsByMovie(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, map[string]any{"items": mapSlice(items, newReviewResponse)})
}

// AverageRating handles GET /api/reviews/movie/:movieId/average.
func (h *CatalogHandler) AverageRating(c echo.Context) error {
    id, ok := parseID(c, "movieId")
    if !ok {
        return invalidID(c)
    }
    avg, err := h.Svc.AverageRating(c.Request().Context(), id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, averageResponse{MovieID: id, AverageRating: avg})
}
