package model

// Genre is a label shared by any number of movies.  Names are meant to be
// unique but the model does not enforce it.
type Genre struct {
    ID   uint64 // genres.id
    Name string // genres.name
}
