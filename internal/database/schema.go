package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Foreign keys deliberately carry no ON DELETE CASCADE: cascading removal
// of movies and reviews is done by the catalog service so that every
// removed id can be reported.

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS directors (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name  VARCHAR(100) NOT NULL,
		birth_date DATE NULL,
		biography  VARCHAR(500) NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS genres (
		id   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(200) NOT NULL,
		description  VARCHAR(1000) NULL,
		release_date DATE NOT NULL,
		duration     INT NOT NULL,
		director_id  BIGINT UNSIGNED NOT NULL,
		INDEX idx_movies_director (director_id),
		CONSTRAINT fk_movies_director FOREIGN KEY (director_id) REFERENCES directors(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (movie_id, genre_id),
		INDEX idx_movie_genres_genre (genre_id),
		CONSTRAINT fk_movie_genres_movie FOREIGN KEY (movie_id) REFERENCES movies(id),
		CONSTRAINT fk_movie_genres_genre FOREIGN KEY (genre_id) REFERENCES genres(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		author_name VARCHAR(200) NOT NULL,
		comment     VARCHAR(2000) NULL,
		rating      TINYINT NOT NULL,
		created_at  DATETIME NOT NULL,
		movie_id    BIGINT UNSIGNED NOT NULL,
		INDEX idx_reviews_movie (movie_id),
		CONSTRAINT fk_reviews_movie FOREIGN KEY (movie_id) REFERENCES movies(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS directors (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		birth_date DATE NULL,
		biography  TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		title        TEXT NOT NULL,
		description  TEXT NULL,
		release_date DATE NOT NULL,
		duration     INTEGER NOT NULL,
		director_id  INTEGER NOT NULL REFERENCES directors(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_director ON movies(director_id)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id INTEGER NOT NULL REFERENCES movies(id),
		genre_id INTEGER NOT NULL REFERENCES genres(id),
		PRIMARY KEY (movie_id, genre_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movie_genres_genre ON movie_genres(genre_id)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		author_name TEXT NOT NULL,
		comment     TEXT NULL,
		rating      INTEGER NOT NULL,
		created_at  DATETIME NOT NULL,
		movie_id    INTEGER NOT NULL REFERENCES movies(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_movie ON reviews(movie_id)`,
}

// Migrate creates the catalog tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverMySQL:
		stmts = mysqlSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
