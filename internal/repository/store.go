package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/catalog"
)

// Store implements catalog.Store over a *sql.DB.  Each WithinTx call opens
// one transaction and hands out repositories bound to it.
type Store struct {
	db *sql.DB
}

// NewStore constructs a Store with the provided DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool, e.g. for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithinTx runs fn in a transaction.  The transaction is committed when fn
// returns nil and rolled back otherwise, including when fn panics.
func (s *Store) WithinTx(ctx context.Context, fn func(tx catalog.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()
	return fn(newTxRepos(tx))
}

// txRepos bundles the repositories of one transaction.
type txRepos struct {
	directors *DirectorRepo
	genres    *GenreRepo
	movies    *MovieRepo
	reviews   *ReviewRepo
}

func newTxRepos(db DBTX) txRepos {
	return txRepos{
		directors: NewDirectorRepo(db),
		genres:    NewGenreRepo(db),
		movies:    NewMovieRepo(db),
		reviews:   NewReviewRepo(db),
	}
}

func (t txRepos) Directors() catalog.DirectorStore { return t.directors }
func (t txRepos) Genres() catalog.GenreStore       { return t.genres }
func (t txRepos) Movies() catalog.MovieStore       { return t.movies }
func (t txRepos) Reviews() catalog.ReviewStore     { return t.reviews }
