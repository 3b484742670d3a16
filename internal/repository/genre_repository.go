package repository

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// GenreRepo encapsulates all queries on the `genres` table.
type GenreRepo struct {
	db DBTX
}

// NewGenreRepo constructs a GenreRepo over a pool or transaction.
func NewGenreRepo(db DBTX) *GenreRepo {
	return &GenreRepo{db: db}
}

// Create inserts a new genre and sets its generated ID.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", g.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Get fetches a genre by id.
func (r *GenreRepo) Get(ctx context.Context, id uint64) (*model.Genre, error) {
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, "SELECT id, name FROM genres WHERE id = ?", id).Scan(&g.ID, &g.Name); err != nil {
		return nil, notFound(err, model.EntityGenre, id)
	}
	return &g, nil
}

// Exists reports whether a genre with the id is stored.
func (r *GenreRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM genres WHERE id = ?", id)
}

// List returns all genres ordered by id.
func (r *GenreRepo) List(ctx context.Context) ([]*model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM genres ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Genre{}
	for rows.Next() {
		g := new(model.Genre)
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames the genre.
func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	_, err := r.db.ExecContext(ctx, "UPDATE genres SET name = ? WHERE id = ?", g.Name, g.ID)
	return err
}

// Delete removes the genre row; links in movie_genres must already be gone.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "DELETE FROM genres WHERE id = ?", model.EntityGenre, id)
}
