package catalog

import (
	"context"
	"time"
)

// Event types published after a successful write.
const (
	EventDirectorCreated = "director.created"
	EventDirectorUpdated = "director.updated"
	EventDirectorDeleted = "director.deleted"
	EventGenreCreated    = "genre.created"
	EventGenreUpdated    = "genre.updated"
	EventGenreDeleted    = "genre.deleted"
	EventMovieCreated    = "movie.created"
	EventMovieUpdated    = "movie.updated"
	EventMovieDeleted    = "movie.deleted"
	EventReviewCreated   = "review.created"
	EventReviewUpdated   = "review.updated"
	EventReviewDeleted   = "review.deleted"
)

// Event describes a committed change.  RelatedIDs holds the movies removed
// with a director, the reviews removed with a movie, or the movie a review
// belongs to.
type Event struct {
	Type       string
	Entity     string
	EntityID   uint64
	RelatedIDs []uint64
	OccurredAt time.Time
}

// Publisher delivers events outside the process.  Failures never undo the
// committed change; the service only logs them.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
