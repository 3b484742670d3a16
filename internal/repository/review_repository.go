package repository

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ReviewRepo encapsulates all queries on the `reviews` table.
type ReviewRepo struct {
	db DBTX
}

// NewReviewRepo constructs a ReviewRepo over a pool or transaction.
func NewReviewRepo(db DBTX) *ReviewRepo {
	return &ReviewRepo{db: db}
}

const reviewColumns = "id, author_name, comment, rating, created_at, movie_id"

// Create inserts a review, including its CreatedAt, and sets the generated
// ID.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	const q = `INSERT INTO reviews (author_name, comment, rating, created_at, movie_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rv.AuthorName, rv.Comment, rv.Rating, rv.CreatedAt, rv.MovieID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// Get fetches a review by id.
func (r *ReviewRepo) Get(ctx context.Context, id uint64) (*model.Review, error) {
	const q = "SELECT " + reviewColumns + " FROM reviews WHERE id = ?"
	var rv model.Review
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&rv.ID, &rv.AuthorName, &rv.Comment, &rv.Rating, &rv.CreatedAt, &rv.MovieID); err != nil {
		return nil, notFound(err, model.EntityReview, id)
	}
	return &rv, nil
}

// Exists reports whether a review with the id is stored.
func (r *ReviewRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM reviews WHERE id = ?", id)
}

// List returns every review ordered by id.
func (r *ReviewRepo) List(ctx context.Context) ([]*model.Review, error) {
	return r.query(ctx, "SELECT "+reviewColumns+" FROM reviews ORDER BY id")
}

// ListByMovie returns the reviews of one movie ordered by id.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]*model.Review, error) {
	return r.query(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE movie_id = ? ORDER BY id", movieID)
}

// Update overwrites author, comment, rating and movie.  created_at is
// written only by Create.
func (r *ReviewRepo) Update(ctx context.Context, rv *model.Review) error {
	const q = `UPDATE reviews
	           SET author_name = ?, comment = ?, rating = ?, movie_id = ?
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, rv.AuthorName, rv.Comment, rv.Rating, rv.MovieID, rv.ID)
	return err
}

// Delete removes one review.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "DELETE FROM reviews WHERE id = ?", model.EntityReview, id)
}

// DeleteByMovie removes every review of the movie.
func (r *ReviewRepo) DeleteByMovie(ctx context.Context, movieID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE movie_id = ?", movieID)
	return err
}

func (r *ReviewRepo) query(ctx context.Context, q string, args ...any) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Review{}
	for rows.Next() {
		rv := new(model.Review)
		if err := rows.Scan(&rv.ID, &rv.AuthorName, &rv.Comment, &rv.Rating, &rv.CreatedAt, &rv.MovieID); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
