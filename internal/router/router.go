package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/movie-catalog/internal/handler"    // handlers that call the catalog service
	"github.com/iliyamo/movie-catalog/internal/middleware" // JWT and role enforcement for writes
)

// RegisterRoutes registers routes that sit outside the catalog API: the
// health check used by load balancers and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterCatalog registers the catalog API under /api.  Reads are public.
// Writes (POST, PUT, DELETE) require an EDITOR token when jwtSecret is
// set and are open otherwise.  mws (e.g. the response cache) wrap only the
// /api routes; /healthz and /metrics always reach their handlers.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, mws ...echo.MiddlewareFunc) {
	api := e.Group("/api", mws...)
	guard := middleware.EditorOnly(jwtSecret)

	// ---- Directors ----
	api.GET("/directors", h.ListDirectors)
	api.GET("/directors/:id", h.GetDirector)
	api.POST("/directors", h.CreateDirector, guard...)
	api.PUT("/directors/:id", h.UpdateDirector, guard...)
	api.DELETE("/directors/:id", h.DeleteDirector, guard...)

	// ---- Genres ----
	api.GET("/genres", h.ListGenres)
	api.GET("/genres/:id", h.GetGenre)
	api.POST("/genres", h.CreateGenre, guard...)
	api.PUT("/genres/:id", h.UpdateGenre, guard...)
	api.DELETE("/genres/:id", h.DeleteGenre, guard...)

	// ---- Movies ----
	api.GET("/movies", h.ListMovies)
	api.GET("/movies/:id", h.GetMovie)
	api.GET("/movies/:id/recommendations", h.Recommendations)
	api.POST("/movies", h.CreateMovie, guard...)
	api.PUT("/movies/:id", h.UpdateMovie, guard...)
	api.DELETE("/movies/:id", h.DeleteMovie, guard...)

	// ---- Reviews ----
	api.GET("/reviews", h.ListReviews)
	api.GET("/reviews/:id", h.GetReview)
	api.GET("/reviews/movie/:movieId", h.ReviewsByMovie)
	api.GET("/reviews/movie/:movieId/average-rating", h.AverageRating)
	api.POST("/reviews", h.CreateReview, guard...)
	api.PUT("/reviews/:id", h.UpdateReview, guard...)
	api.DELETE("/reviews/:id", h.DeleteReview, guard...)
}
