// Package catalog holds the core of the movie catalog: CRUD orchestration
// across directors, genres, movies and reviews, rating aggregation and
// genre-based recommendations.  Persistence is reached only through the
// Store interface defined here, so the package has no knowledge of SQL.
package catalog

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Store runs fn inside a single atomic unit (a database transaction for the
// SQL implementation).  When fn returns an error every write performed
// through tx is discarded.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the per-entity collections bound to one transaction.
type Tx interface {
	Directors() DirectorStore
	Genres() GenreStore
	Movies() MovieStore
	Reviews() ReviewStore
}

// DirectorStore is the director collection.  Get returns a
// *model.NotFoundError when the id is unknown.
type DirectorStore interface {
	Get(ctx context.Context, id uint64) (*model.Director, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]*model.Director, error)
	Create(ctx context.Context, d *model.Director) error
	Update(ctx context.Context, d *model.Director) error
	Delete(ctx context.Context, id uint64) error
}

// GenreStore is the genre collection.
type GenreStore interface {
	Get(ctx context.Context, id uint64) (*model.Genre, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]*model.Genre, error)
	Create(ctx context.Context, g *model.Genre) error
	Update(ctx context.Context, g *model.Genre) error
	Delete(ctx context.Context, id uint64) error
}

// MovieStore is the movie collection.  Movies are loaded together with
// their genre ids.  Update replaces the genre set; Delete removes the
// movie's genre links but not its reviews.
type MovieStore interface {
	Get(ctx context.Context, id uint64) (*model.Movie, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]*model.Movie, error)
	Create(ctx context.Context, m *model.Movie) error
	Update(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, id uint64) error

	// IDsByDirector lists the ids of every movie owned by the director.
	IDsByDirector(ctx context.Context, directorID uint64) ([]uint64, error)
	// FindSimilar lists movies other than excludeID sharing at least one
	// genre with genreIDs.  Each movie is returned once.
	FindSimilar(ctx context.Context, excludeID uint64, genreIDs []uint64) ([]*model.Movie, error)
	// UnlinkGenre removes the genre from every movie's genre set.
	UnlinkGenre(ctx context.Context, genreID uint64) error
}

// ReviewStore is the review collection.  Update never writes CreatedAt.
type ReviewStore interface {
	Get(ctx context.Context, id uint64) (*model.Review, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]*model.Review, error)
	ListByMovie(ctx context.Context, movieID uint64) ([]*model.Review, error)
	Create(ctx context.Context, r *model.Review) error
	Update(ctx context.Context, r *model.Review) error
	Delete(ctx context.Context, id uint64) error
	DeleteByMovie(ctx context.Context, movieID uint64) error
}
