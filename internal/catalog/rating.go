package catalog

import (
	"context"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ReviewLister is the slice of ReviewStore the aggregation needs.
type ReviewLister interface {
	ListByMovie(ctx context.Context, movieID uint64) ([]*model.Review, error)
}

// AverageRating returns the arithmetic mean of the ratings of every review
// of movieID, or 0 when the movie has none.  It does not check that the
// movie exists; callers do that first.  Nothing is cached.
func AverageRating(ctx context.Context, reviews ReviewLister, movieID uint64) (float64, error) {
	list, err := reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return 0, fmt.Errorf("list reviews of movie %d: %w", movieID, err)
	}
	return MeanRating(list), nil
}

// MeanRating averages the ratings of the reviews.  An empty list yields 0.
func MeanRating(reviews []*model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}
	return float64(sum) / float64(len(reviews))
}

// projectMovie attaches the derived average rating to a stored movie.
func projectMovie(m *model.Movie, avg float64) model.MovieView {
	return model.MovieView{Movie: *m, AverageRating: avg}
}

// viewMovie loads the average rating of m and returns its projection.
func viewMovie(ctx context.Context, reviews ReviewLister, m *model.Movie) (model.MovieView, error) {
	avg, err := AverageRating(ctx, reviews, m.ID)
	if err != nil {
		return model.MovieView{}, err
	}
	return projectMovie(m, avg), nil
}
