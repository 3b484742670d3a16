package model

import "time"

// Review is a rating left for a movie.  CreatedAt is assigned when the
// review is first stored and never changes afterwards.
type Review struct {
    ID         uint64    // reviews.id
    AuthorName string    // reviews.author_name
    Comment    *string   // reviews.comment (nullable)
    Rating     int       // reviews.rating, 1..10
    CreatedAt  time.Time // reviews.created_at
    MovieID    uint64    // reviews.movie_id
}

// Rating bounds accepted for a review.
const (
    MinRating = 1
    MaxRating = 10
)
