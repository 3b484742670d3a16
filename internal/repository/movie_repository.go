package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo encapsulates queries on `movies` and its `movie_genres` link
// table.  Genre ids are always loaded together with the movie.
//
// Result sets are drained and closed before the follow-up genre query is
// issued: the MySQL driver cannot run two statements at once on the
// connection a transaction is pinned to.
type MovieRepo struct {
	db DBTX
}

// NewMovieRepo constructs a MovieRepo over a pool or transaction.
func NewMovieRepo(db DBTX) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieColumns = "m.id, m.title, m.description, m.release_date, m.duration, m.director_id"

// Create inserts the movie and its genre links and sets the generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, release_date, duration, director_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.ReleaseDate, m.Duration, m.DirectorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.insertGenres(ctx, m.ID, m.GenreIDs)
}

// Get fetches a movie with its genre ids.
func (r *MovieRepo) Get(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = "SELECT " + movieColumns + " FROM movies m WHERE m.id = ?"
	m := new(model.Movie)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.Description, &m.ReleaseDate, &m.Duration, &m.DirectorID)
	if err != nil {
		return nil, notFound(err, model.EntityMovie, id)
	}
	if err := r.attachGenres(ctx, []*model.Movie{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// Exists reports whether a movie with the id is stored.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM movies WHERE id = ?", id)
}

// List returns every movie ordered by id.
func (r *MovieRepo) List(ctx context.Context) ([]*model.Movie, error) {
	const q = "SELECT " + movieColumns + " FROM movies m ORDER BY m.id"
	return r.query(ctx, q)
}

// Update overwrites the movie columns and replaces its genre links.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, description = ?, release_date = ?, duration = ?, director_id = ?
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.ReleaseDate, m.Duration, m.DirectorID, m.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = ?", m.ID); err != nil {
		return err
	}
	return r.insertGenres(ctx, m.ID, m.GenreIDs)
}

// Delete removes the movie's genre links and then the movie.  Reviews are
// not touched; they must be removed first.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = ?", id); err != nil {
		return err
	}
	return deleteByID(ctx, r.db, "DELETE FROM movies WHERE id = ?", model.EntityMovie, id)
}

// IDsByDirector lists the ids of the director's movies in ascending order.
func (r *MovieRepo) IDsByDirector(ctx context.Context, directorID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM movies WHERE director_id = ? ORDER BY id", directorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FindSimilar returns the movies other than excludeID linked to at least
// one of genreIDs.  The EXISTS predicate yields each movie once however
// many genres it shares.
func (r *MovieRepo) FindSimilar(ctx context.Context, excludeID uint64, genreIDs []uint64) ([]*model.Movie, error) {
	if len(genreIDs) == 0 {
		return []*model.Movie{}, nil
	}
	q := "SELECT " + movieColumns + ` FROM movies m
	      WHERE m.id <> ? AND EXISTS (
	          SELECT 1 FROM movie_genres mg
	          WHERE mg.movie_id = m.id AND mg.genre_id IN (` + placeholders(len(genreIDs)) + `))
	      ORDER BY m.id`
	args := append([]any{excludeID}, idArgs(genreIDs)...)
	return r.query(ctx, q, args...)
}

// UnlinkGenre drops every link to the genre.
func (r *MovieRepo) UnlinkGenre(ctx context.Context, genreID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM movie_genres WHERE genre_id = ?", genreID)
	return err
}

// query runs a movie select and attaches genre ids to the results.
func (r *MovieRepo) query(ctx context.Context, q string, args ...any) ([]*model.Movie, error) {
	movies, err := r.scanMovies(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachGenres(ctx, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *MovieRepo) scanMovies(ctx context.Context, q string, args ...any) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Movie{}
	for rows.Next() {
		m := new(model.Movie)
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.ReleaseDate, &m.Duration, &m.DirectorID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// attachGenres fills GenreIDs of every movie with one query.
func (r *MovieRepo) attachGenres(ctx context.Context, movies []*model.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Movie, len(movies))
	ids := make([]uint64, 0, len(movies))
	for _, m := range movies {
		m.GenreIDs = []uint64{}
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	q := `SELECT movie_id, genre_id FROM movie_genres
	      WHERE movie_id IN (` + placeholders(len(ids)) + `)
	      ORDER BY movie_id, genre_id`
	rows, err := r.db.QueryContext(ctx, q, idArgs(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var movieID, genreID uint64
		if err := rows.Scan(&movieID, &genreID); err != nil {
			return err
		}
		if m := byID[movieID]; m != nil {
			m.GenreIDs = append(m.GenreIDs, genreID)
		}
	}
	return rows.Err()
}

// insertGenres links the movie to every genre with one multi-row insert.
func (r *MovieRepo) insertGenres(ctx context.Context, movieID uint64, genreIDs []uint64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	values := make([]string, len(genreIDs))
	args := make([]any, 0, 2*len(genreIDs))
	for i, gid := range genreIDs {
		values[i] = "(?, ?)"
		args = append(args, movieID, gid)
	}
	q := "INSERT INTO movie_genres (movie_id, genre_id) VALUES " + strings.Join(values, ", ")
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}
