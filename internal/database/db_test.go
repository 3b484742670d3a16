package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open(config.Config{DBDriver: DriverSQLite, DBPath: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	// Migrate is idempotent.
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, DriverSQLite); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i+1, err)
		}
	}

	var n int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('directors','genres','movies','movie_genres','reviews')").Scan(&n)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("tables = %d, want 5", n)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	if err := Migrate(ctx, db, DriverSQLite); err != nil {
		t.Fatal(err)
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO movies (title, release_date, duration, director_id) VALUES ('x', '2020-01-01', 90, 999)")
	if err == nil {
		t.Error("insert with dangling director_id should fail")
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := Open(config.Config{DBDriver: "oracle"}); err == nil {
		t.Error("Open(oracle) should fail")
	}
	if err := Migrate(context.Background(), nil, "oracle"); err == nil {
		t.Error("Migrate(oracle) should fail")
	}
}
