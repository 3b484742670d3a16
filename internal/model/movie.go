package model

import "time"

// Movie represents a catalog entry.  Relations are held as identifiers:
// DirectorID points at the owning director and GenreIDs lists the
// associated genres (rows of `movie_genres`).  The average rating is not
// part of the record; see MovieView.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title.
//  Description – optional synopsis.
//  ReleaseDate – release day (never in the future).
//  Duration    – running time in minutes, positive.
//  DirectorID  – owning director.
//  GenreIDs    – associated genres in ascending order, no duplicates.
type Movie struct {
    ID          uint64    // movies.id
    Title       string    // movies.title
    Description *string   // movies.description (nullable)
    ReleaseDate time.Time // movies.release_date
    Duration    int       // movies.duration
    DirectorID  uint64    // movies.director_id
    GenreIDs    []uint64  // movie_genres.genre_id
}

// HasGenre reports whether the movie is associated with the genre.
func (m *Movie) HasGenre(genreID uint64) bool {
    for _, id := range m.GenreIDs {
        if id == genreID {
            return true
        }
    }
    return false
}

// MovieView is the read-side projection of a movie: the stored record plus
// its derived average rating.
type MovieView struct {
    Movie
    AverageRating float64
}
