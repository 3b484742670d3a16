package model

import (
    "errors"
    "fmt"
)

// Entity names used in NotFoundError.
const (
    EntityDirector = "director"
    EntityGenre    = "genre"
    EntityMovie    = "movie"
    EntityReview   = "review"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned whenever an operation references an identity,
// primary or foreign, that does not exist at the time of the check.
type NotFoundError struct {
    Entity string
    ID     uint64
}

// NotFound builds a NotFoundError for the entity type and id.
func NotFound(entity string, id uint64) *NotFoundError {
    return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
    return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) succeed for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
    return target == ErrNotFound
}
