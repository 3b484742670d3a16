package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

type reviewsByMovie map[uint64][]*model.Review

func (r reviewsByMovie) ListByMovie(_ context.Context, movieID uint64) ([]*model.Review, error) {
	return r[movieID], nil
}

type failingReviews struct{}

func (failingReviews) ListByMovie(context.Context, uint64) ([]*model.Review, error) {
	return nil, errors.New("disk on fire")
}

func ratings(rs ...int) []*model.Review {
	out := make([]*model.Review, len(rs))
	for i, r := range rs {
		out[i] = &model.Review{ID: uint64(i + 1), Rating: r}
	}
	return out
}

func TestMeanRating(t *testing.T) {
	tests := []struct {
		name string
		in   []*model.Review
		want float64
	}{
		{"no reviews", nil, 0},
		{"single", ratings(7), 7},
		{"mean", ratings(8, 6, 10), 8},
		{"fractional", ratings(1, 2), 1.5},
		{"bounds", ratings(model.MinRating, model.MaxRating), 5.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeanRating(tt.in); got != tt.want {
				t.Errorf("MeanRating() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAverageRating(t *testing.T) {
	ctx := context.Background()
	reviews := reviewsByMovie{1: ratings(9, 8)}

	if got, err := AverageRating(ctx, reviews, 1); err != nil || got != 8.5 {
		t.Errorf("AverageRating(1) = %v, %v; want 8.5", got, err)
	}
	if got, err := AverageRating(ctx, reviews, 2); err != nil || got != 0 {
		t.Errorf("AverageRating(2) = %v, %v; want 0", got, err)
	}
	if _, err := AverageRating(ctx, failingReviews{}, 1); err == nil {
		t.Error("AverageRating() should surface store errors")
	}
}

func TestRankMovies(t *testing.T) {
	day := func(y int) time.Time { return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC) }
	view := func(id uint64, avg float64, year int) model.MovieView {
		return model.MovieView{Movie: model.Movie{ID: id, ReleaseDate: day(year)}, AverageRating: avg}
	}
	views := []model.MovieView{
		view(5, 7, 2020),
		view(4, 9, 2001),
		view(3, 7, 2022),
		view(2, 7, 2020),
		view(1, 0, 2024),
	}
	rankMovies(views)

	want := []uint64{4, 3, 2, 5, 1}
	for i, v := range views {
		if v.ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(views), want)
		}
	}
}

func TestUniqueIDs(t *testing.T) {
	got := uniqueIDs([]uint64{3, 1, 3, 2, 1})
	want := []uint64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("uniqueIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("uniqueIDs() = %v, want %v", got, want)
		}
	}
	if uniqueIDs(nil) != nil {
		t.Error("uniqueIDs(nil) should be nil")
	}
}

func ids(views []model.MovieView) []uint64 {
	out := make([]uint64, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}
