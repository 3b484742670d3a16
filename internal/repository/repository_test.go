package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/database/dbtest"
	"github.com/iliyamo/movie-catalog/internal/model"
)

func seed(t *testing.T, s *Store, fn func(ctx context.Context, tx catalog.Tx) error) {
	t.Helper()
	if err := s.WithinTx(context.Background(), func(tx catalog.Tx) error {
		return fn(context.Background(), tx)
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestDirectorNullableFields(t *testing.T) {
	s := NewStore(dbtest.NewSQLite(t))
	born := time.Date(1946, 12, 18, 0, 0, 0, 0, time.UTC)
	bio := "Jaws, E.T."
	withAll := &model.Director{FirstName: "Steven", LastName: "Spielberg", BirthDate: &born, Biography: &bio}
	bare := &model.Director{FirstName: "Alan", LastName: "Smithee"}

	seed(t, s, func(ctx context.Context, tx catalog.Tx) error {
		if err := tx.Directors().Create(ctx, withAll); err != nil {
			return err
		}
		return tx.Directors().Create(ctx, bare)
	})

	repo := NewDirectorRepo(s.DB())
	got, err := repo.Get(context.Background(), withAll.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.BirthDate == nil || !got.BirthDate.Equal(born) || got.Biography == nil || *got.Biography != bio {
		t.Errorf("Get() = %+v", got)
	}
	got, err = repo.Get(context.Background(), bare.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.BirthDate != nil || got.Biography != nil {
		t.Errorf("nullable fields should stay nil: %+v", got)
	}

	list, err := repo.List(context.Background())
	if err != nil || len(list) != 2 || list[0].ID != withAll.ID {
		t.Errorf("List() = %v, %v", list, err)
	}
}

func TestMovieFindSimilar(t *testing.T) {
	s := NewStore(dbtest.NewSQLite(t))
	var (
		d                          model.Director
		action, drama, comedy      model.Genre
		src, both, onlyDr, onlyCom model.Movie
	)
	release := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, s, func(ctx context.Context, tx catalog.Tx) error {
		d = model.Director{FirstName: "A", LastName: "B"}
		if err := tx.Directors().Create(ctx, &d); err != nil {
			return err
		}
		for _, g := range []*model.Genre{&action, &drama, &comedy} {
			g.Name = "g"
			if err := tx.Genres().Create(ctx, g); err != nil {
				return err
			}
		}
		mk := func(m *model.Movie, genres ...uint64) error {
			*m = model.Movie{Title: "t", ReleaseDate: release, Duration: 90, DirectorID: d.ID, GenreIDs: genres}
			return tx.Movies().Create(ctx, m)
		}
		if err := mk(&src, action.ID, drama.ID); err != nil {
			return err
		}
		if err := mk(&both, action.ID, drama.ID); err != nil {
			return err
		}
		if err := mk(&onlyDr, drama.ID); err != nil {
			return err
		}
		return mk(&onlyCom, comedy.ID)
	})

	movies := NewMovieRepo(s.DB())
	got, err := movies.FindSimilar(context.Background(), src.ID, []uint64{action.ID, drama.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != both.ID || got[1].ID != onlyDr.ID {
		t.Fatalf("FindSimilar() = %+v, want [%d %d]", got, both.ID, onlyDr.ID)
	}
	if len(got[0].GenreIDs) != 2 {
		t.Errorf("genre ids not attached: %+v", got[0])
	}
	if !got[0].ReleaseDate.Equal(release) {
		t.Errorf("ReleaseDate = %v, want %v", got[0].ReleaseDate, release)
	}

	empty, err := movies.FindSimilar(context.Background(), src.ID, nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("FindSimilar(no genres) = %v, %v", empty, err)
	}

	ids, err := movies.IDsByDirector(context.Background(), d.ID)
	if err != nil || len(ids) != 4 {
		t.Errorf("IDsByDirector() = %v, %v", ids, err)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	s := NewStore(dbtest.NewSQLite(t))
	ctx := context.Background()
	err := NewGenreRepo(s.DB()).Delete(ctx, 7)
	var nf *model.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != model.EntityGenre || nf.ID != 7 {
		t.Errorf("Delete() = %v, want genre 7 not found", err)
	}
	if ok, err := NewMovieRepo(s.DB()).Exists(ctx, 1); ok || err != nil {
		t.Errorf("Exists() = %v, %v", ok, err)
	}
}

func TestWithinTxRollsBack(t *testing.T) {
	s := NewStore(dbtest.NewSQLite(t))
	boom := errors.New("boom")
	err := s.WithinTx(context.Background(), func(tx catalog.Tx) error {
		if err := tx.Genres().Create(context.Background(), &model.Genre{Name: "lost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx() = %v, want boom", err)
	}
	list, err := NewGenreRepo(s.DB()).List(context.Background())
	if err != nil || len(list) != 0 {
		t.Errorf("genres after rollback = %v, %v", list, err)
	}
}

func TestReviewDeleteByMovie(t *testing.T) {
	s := NewStore(dbtest.NewSQLite(t))
	var m1, m2 model.Movie
	seed(t, s, func(ctx context.Context, tx catalog.Tx) error {
		d := model.Director{FirstName: "a", LastName: "b"}
		if err := tx.Directors().Create(ctx, &d); err != nil {
			return err
		}
		for _, m := range []*model.Movie{&m1, &m2} {
			*m = model.Movie{Title: "t", ReleaseDate: time.Now().UTC(), Duration: 1, DirectorID: d.ID}
			if err := tx.Movies().Create(ctx, m); err != nil {
				return err
			}
		}
		for _, mid := range []uint64{m1.ID, m1.ID, m2.ID} {
			r := &model.Review{AuthorName: "x", Rating: 5, CreatedAt: time.Now().UTC().Truncate(time.Second), MovieID: mid}
			if err := tx.Reviews().Create(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})

	reviews := NewReviewRepo(s.DB())
	ctx := context.Background()
	if err := reviews.DeleteByMovie(ctx, m1.ID); err != nil {
		t.Fatal(err)
	}
	left, err := reviews.List(ctx)
	if err != nil || len(left) != 1 || left[0].MovieID != m2.ID {
		t.Errorf("reviews left = %+v, %v", left, err)
	}
}
