package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// RecommendationLimit caps the number of recommended movies.
const RecommendationLimit = 5

// Recommend returns up to RecommendationLimit movies sharing at least one
// genre with movieID, best rated first.  A movie without genres yields no
// recommendations.  Ranking keys, all applied to the same projection that
// is returned to the caller:
//
//  1. average rating, descending (no reviews counts as 0)
//  2. release date, descending
//  3. id, ascending
//
// How many genres a candidate shares with the source does not matter.
func Recommend(ctx context.Context, movies MovieStore, reviews ReviewLister, movieID uint64) ([]model.MovieView, error) {
	src, err := movies.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	genreIDs := uniqueIDs(src.GenreIDs)
	if len(genreIDs) == 0 {
		return []model.MovieView{}, nil
	}

	candidates, err := movies.FindSimilar(ctx, movieID, genreIDs)
	if err != nil {
		return nil, fmt.Errorf("find movies similar to %d: %w", movieID, err)
	}

	seen := make(map[uint64]bool, len(candidates))
	views := make([]model.MovieView, 0, len(candidates))
	for _, m := range candidates {
		if m.ID == movieID || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		v, err := viewMovie(ctx, reviews, m)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	rankMovies(views)
	if len(views) > RecommendationLimit {
		views = views[:RecommendationLimit]
	}
	return views, nil
}

// rankMovies sorts views in recommendation order.
func rankMovies(views []model.MovieView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if !a.ReleaseDate.Equal(b.ReleaseDate) {
			return a.ReleaseDate.After(b.ReleaseDate)
		}
		return a.ID < b.ID
	})
}

// uniqueIDs returns ids without duplicates, in ascending order.
func uniqueIDs(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
