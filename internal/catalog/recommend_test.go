package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// memMovies is an in-memory MovieStore covering what Recommend reads.
type memMovies struct {
	byID map[uint64]*model.Movie
}

func newMemMovies(movies ...*model.Movie) *memMovies {
	m := &memMovies{byID: map[uint64]*model.Movie{}}
	for _, mv := range movies {
		m.byID[mv.ID] = mv
	}
	return m
}

func (m *memMovies) Get(_ context.Context, id uint64) (*model.Movie, error) {
	if mv, ok := m.byID[id]; ok {
		return mv, nil
	}
	return nil, model.NotFound(model.EntityMovie, id)
}

func (m *memMovies) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := m.byID[id]
	return ok, nil
}

func (m *memMovies) List(context.Context) ([]*model.Movie, error) { return nil, nil }
func (m *memMovies) Create(context.Context, *model.Movie) error   { return nil }
func (m *memMovies) Update(context.Context, *model.Movie) error   { return nil }
func (m *memMovies) Delete(context.Context, uint64) error         { return nil }
func (m *memMovies) UnlinkGenre(context.Context, uint64) error    { return nil }

func (m *memMovies) IDsByDirector(context.Context, uint64) ([]uint64, error) { return nil, nil }

// FindSimilar deliberately returns a movie once per shared genre so the
// caller's de-duplication is exercised.
func (m *memMovies) FindSimilar(_ context.Context, excludeID uint64, genreIDs []uint64) ([]*model.Movie, error) {
	var out []*model.Movie
	for _, g := range genreIDs {
		for id := uint64(1); id <= uint64(len(m.byID))+10; id++ {
			mv, ok := m.byID[id]
			if ok && id != excludeID && mv.HasGenre(g) {
				out = append(out, mv)
			}
		}
	}
	return out, nil
}

const (
	action uint64 = 1
	drama  uint64 = 2
	comedy uint64 = 3
)

func movie(id uint64, year int, genres ...uint64) *model.Movie {
	return &model.Movie{
		ID:          id,
		Title:       "m",
		ReleaseDate: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
		Duration:    100,
		DirectorID:  1,
		GenreIDs:    genres,
	}
}

func TestRecommendSharedGenre(t *testing.T) {
	// M1 Action 9.0 (2020), M2 Action 7.0 (2022), M3 Drama only.
	movies := newMemMovies(movie(1, 2020, action), movie(2, 2022, action), movie(3, 2021, drama))
	reviews := reviewsByMovie{1: ratings(9), 2: ratings(7), 3: ratings(10)}

	got, err := Recommend(context.Background(), movies, reviews, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 2 || got[0].AverageRating != 7 {
		t.Fatalf("Recommend(1) = %+v, want [M2 (7.0)]", got)
	}
}

func TestRecommendRankingAndLimit(t *testing.T) {
	movies := newMemMovies(
		movie(1, 2000, action, drama),
		movie(2, 2010, action),
		movie(3, 2011, drama),
		movie(4, 2012, action, drama), // shares two genres, counted once
		movie(5, 2013, action),
		movie(6, 2014, drama),
		movie(7, 2015, action),
		movie(8, 2016, comedy),
	)
	reviews := reviewsByMovie{
		2: ratings(10),
		3: ratings(6),
		4: ratings(6),
		5: ratings(8, 9),
		7: ratings(6),
		8: ratings(10),
	}

	got, err := Recommend(context.Background(), movies, reviews, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 2 (10), 5 (8.5), then the 6.0 tie by newest release: 7, 4, 3. 6 (0) is cut.
	want := []uint64{2, 5, 7, 4, 3}
	if len(got) != RecommendationLimit {
		t.Fatalf("len = %d, want %d", len(got), RecommendationLimit)
	}
	for i, v := range got {
		if v.ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestRecommendNoGenres(t *testing.T) {
	movies := newMemMovies(movie(1, 2020), movie(2, 2020, action))
	got, err := Recommend(context.Background(), movies, reviewsByMovie{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Recommend() = %v, want empty non-nil slice", got)
	}
}

func TestRecommendUnknownMovie(t *testing.T) {
	_, err := Recommend(context.Background(), newMemMovies(), reviewsByMovie{}, 42)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Recommend(42) = %v, want NotFound", err)
	}
}
