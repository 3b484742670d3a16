package catalog

import (
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Inputs carry already validated values.  Update operations replace every
// field of the stored record with the input, so callers resend the whole
// entity.

// DirectorInput is the payload of CreateDirector and UpdateDirector.
type DirectorInput struct {
	FirstName string
	LastName  string
	BirthDate *time.Time
	Biography *string
}

func (in DirectorInput) director(id uint64) *model.Director {
	return &model.Director{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDate: in.BirthDate,
		Biography: in.Biography,
	}
}

// GenreInput is the payload of CreateGenre and UpdateGenre.
type GenreInput struct {
	Name string
}

func (in GenreInput) genre(id uint64) *model.Genre {
	return &model.Genre{ID: id, Name: in.Name}
}

// MovieInput is the payload of CreateMovie and UpdateMovie.  A nil or empty
// GenreIDs clears the genre set.
type MovieInput struct {
	Title       string
	Description *string
	ReleaseDate time.Time
	Duration    int
	DirectorID  uint64
	GenreIDs    []uint64
}

func (in MovieInput) movie(id uint64) *model.Movie {
	return &model.Movie{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		ReleaseDate: in.ReleaseDate,
		Duration:    in.Duration,
		DirectorID:  in.DirectorID,
		GenreIDs:    uniqueIDs(in.GenreIDs),
	}
}

// ReviewInput is the payload of CreateReview and UpdateReview.  The
// creation time is never taken from the input.
type ReviewInput struct {
	AuthorName string
	Comment    *string
	Rating     int
	MovieID    uint64
}

func (in ReviewInput) review(id uint64) *model.Review {
	return &model.Review{
		ID:         id,
		AuthorName: in.AuthorName,
		Comment:    in.Comment,
		Rating:     in.Rating,
		MovieID:    in.MovieID,
	}
}
