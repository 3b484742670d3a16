// Package repository implements the catalog store on top of database/sql.
// The queries use `?` placeholders and portable SQL so the same code runs
// against MySQL in production and SQLite in embedded mode and tests.
// Missing rows are reported as *model.NotFoundError so callers can
// distinguish them from storage failures.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories, so a
// repo can run either directly on the pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// notFound converts sql.ErrNoRows into a NotFoundError for the entity.
func notFound(err error, entity string, id uint64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFound(entity, id)
	}
	return err
}

// exists runs a `SELECT 1 ... WHERE id = ?` style query.
func exists(ctx context.Context, db DBTX, q string, id uint64) (bool, error) {
	var one int
	if err := db.QueryRowContext(ctx, q, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// deleteByID runs a delete and reports NotFound when no row was removed.
func deleteByID(ctx context.Context, db DBTX, q, entity string, id uint64) error {
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.NotFound(entity, id)
	}
	return nil
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []uint64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
