package model

import "time"

// Director represents a film director.  A director owns zero or more
// movies; removing a director removes its movies as well.  This struct
// corresponds to a row in the `directors` table.
//
// Fields:
//  ID        – primary key identifier.
//  FirstName – given name.
//  LastName  – family name.
//  BirthDate – date of birth (nil if unknown).
//  Biography – optional free text, at most 500 characters.
type Director struct {
    ID        uint64     // directors.id
    FirstName string     // directors.first_name
    LastName  string     // directors.last_name
    BirthDate *time.Time // directors.birth_date (nullable)
    Biography *string    // directors.biography (nullable)
}
