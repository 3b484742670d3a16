package handler

import (
    "time"

    "github.com/iliyamo/movie-catalog/internal/catalog"
    "github.com/iliyamo/movie-catalog/internal/model"
    "github.com/iliyamo/movie-catalog/internal/validation"
)

// Request bodies.  Update requests use the same shapes as create: a PUT
// replaces the whole record.

type directorRequest struct {
    FirstName string  `json:"first_name" validate:"required,notblank,max=100"`
    LastName  string  `json:"last_name" validate:"required,notblank,max=100"`
    BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
    Biography *string `json:"biography" validate:"omitempty,max=500"`
}

func (r *directorRequest) normalize() {
    r.BirthDate = emptyToNil(r.BirthDate)
    r.Biography = emptyToNil(r.Biography)
}

func (r directorRequest) input() catalog.DirectorInput {
    return catalog.DirectorInput{
        FirstName: r.FirstName,
        LastName:  r.LastName,
        BirthDate: parseOptionalDate(r.BirthDate),
        Biography: r.Biography,
    }
}

type genreRequest struct {
    Name string `json:"name" validate:"required,notblank,max=100"`
}

type movieRequest struct {
    Title       string   `json:"title" validate:"required,notblank,max=200"`
    Description *string  `json:"description" validate:"omitempty,max=1000"`
    ReleaseDate string   `json:"release_date" validate:"required,datetime=2006-01-02,notfuture"`
    Duration    int      `json:"duration" validate:"required,min=1"`
    DirectorID  uint64   `json:"director_id" validate:"required"`
    GenreIDs    []uint64 `json:"genre_ids" validate:"omitempty,dive,required"`
}

func (r *movieRequest) normalize() { r.Description = emptyToNil(r.Description) }

func (r movieRequest) input() catalog.MovieInput {
    release, _ := time.Parse(validation.DateLayout, r.ReleaseDate) // format checked by the validator
    return catalog.MovieInput{
        Title:       r.Title,
        Description: r.Description,
        ReleaseDate: release,
        Duration:    r.Duration,
        DirectorID:  r.DirectorID,
        GenreIDs:    r.GenreIDs,
    }
}

type reviewRequest struct {
    AuthorName string  `json:"author_name" validate:"required,notblank,max=200"`
    Comment    *string `json:"comment" validate:"omitempty,max=2000"`
    Rating     int     `json:"rating" validate:"required,min=1,max=10"`
    MovieID    uint64  `json:"movie_id" validate:"required"`
}

func (r *reviewRequest) normalize() { r.Comment = emptyToNil(r.Comment) }

func (r reviewRequest) input() catalog.ReviewInput {
    return catalog.ReviewInput{
        AuthorName: r.AuthorName,
        Comment:    r.Comment,
        Rating:     r.Rating,
        MovieID:    r.MovieID,
    }
}

// Response bodies.

type directorResponse struct {
    ID        uint64  `json:"id"`
    FirstName string  `json:"first_name"`
    LastName  string  `json:"last_name"`
    BirthDate *string `json:"birth_date"`
    Biography *string `json:"biography"`
}

func newDirectorResponse(d *model.Director) directorResponse {
    out := directorResponse{ID: d.ID, FirstName: d.FirstName, LastName: d.LastName, Biography: d.Biography}
    if d.BirthDate != nil {
        s := d.BirthDate.Format(validation.DateLayout)
        out.BirthDate = &s
    }
    return out
}

type genreResponse struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
}

func newGenreResponse(g *model.Genre) genreResponse {
    return genreResponse{ID: g.ID, Name: g.Name}
}

type movieResponse struct {
    ID            uint64   `json:"id"`
    Title         string   `json:"title"`
    Description   *string  `json:"description"`
    ReleaseDate   string   `json:"release_date"`
    Duration      int      `json:"duration"`
    DirectorID    uint64   `json:"director_id"`
    GenreIDs      []uint64 `json:"genre_ids"`
    AverageRating float64  `json:"average_rating"`
}

func newMovieResponse(v model.MovieView) movieResponse {
    genres := v.GenreIDs
    if genres == nil {
        genres = []uint64{}
    }
    return movieResponse{
        ID:            v.ID,
        Title:         v.Title,
        Description:   v.Description,
        ReleaseDate:   v.ReleaseDate.Format(validation.DateLayout),
        Duration:      v.Duration,
        DirectorID:    v.DirectorID,
        GenreIDs:      genres,
        AverageRating: v.AverageRating,
    }
}

type reviewResponse struct {
    ID         uint64    `json:"id"`
    AuthorName string    `json:"author_name"`
    Comment    *string   `json:"comment"`
    Rating     int       `json:"rating"`
    CreatedAt  time.Time `json:"created_at"`
    MovieID    uint64    `json:"movie_id"`
}

func newReviewResponse(r *model.Review) reviewResponse {
    return reviewResponse{
        ID:         r.ID,
        AuthorName: r.AuthorName,
        Comment:    r.Comment,
        Rating:     r.Rating,
        CreatedAt:  r.CreatedAt.UTC(),
        MovieID:    r.MovieID,
    }
}

type averageResponse struct {
    MovieID       uint64  `json:"movie_id"`
    AverageRating float64 `json:"average_rating"`
}

func parseOptionalDate(s *string) *time.Time {
    if s == nil {
        return nil
    }
    t, err := time.Parse(validation.DateLayout, *s)
    if err != nil {
        return nil
    }
    return &t
}

// mapSlice converts every element with fn and never returns nil, so empty
// lists encode as [].
func mapSlice[T, R any](in []T, fn func(T) R) []R {
    out := make([]R, 0, len(in))
    for _, v := range in {
        out = append(out, fn(v))
    }
    return out
}
