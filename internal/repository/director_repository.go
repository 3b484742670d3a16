package repository

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// DirectorRepo encapsulates all queries on the `directors` table.
type DirectorRepo struct {
	db DBTX
}

// NewDirectorRepo constructs a DirectorRepo over a pool or transaction.
func NewDirectorRepo(db DBTX) *DirectorRepo {
	return &DirectorRepo{db: db}
}

const directorColumns = "id, first_name, last_name, birth_date, biography"

// Create inserts a new director and sets its generated ID.
func (r *DirectorRepo) Create(ctx context.Context, d *model.Director) error {
	const q = "INSERT INTO directors (first_name, last_name, birth_date, biography) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, d.FirstName, d.LastName, d.BirthDate, d.Biography)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// Get fetches a director by id.
func (r *DirectorRepo) Get(ctx context.Context, id uint64) (*model.Director, error) {
	const q = "SELECT " + directorColumns + " FROM directors WHERE id = ?"
	var d model.Director
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.FirstName, &d.LastName, &d.BirthDate, &d.Biography); err != nil {
		return nil, notFound(err, model.EntityDirector, id)
	}
	return &d, nil
}

// Exists reports whether a director with the id is stored.
func (r *DirectorRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM directors WHERE id = ?", id)
}

// List returns all directors ordered by id.
func (r *DirectorRepo) List(ctx context.Context) ([]*model.Director, error) {
	const q = "SELECT " + directorColumns + " FROM directors ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Director{}
	for rows.Next() {
		d := new(model.Director)
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.BirthDate, &d.Biography); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites every column of the director.
func (r *DirectorRepo) Update(ctx context.Context, d *model.Director) error {
	const q = `UPDATE directors
	           SET first_name = ?, last_name = ?, birth_date = ?, biography = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, d.FirstName, d.LastName, d.BirthDate, d.Biography, d.ID)
	return err
}

// Delete removes the director row only; dependent movies must already be
// gone.
func (r *DirectorRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "DELETE FROM directors WHERE id = ?", model.EntityDirector, id)
}
