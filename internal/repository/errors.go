package repository

import "errors"

// ErrNotFound is returned when a referenced record does not exist in the database.
// Lookups by id never return it; they return a nil row instead.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate")
