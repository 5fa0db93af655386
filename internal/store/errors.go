package store

import "errors"

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnknownCollection is returned when reading a collection that was
	// never written.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrInvalidCollection is returned for collection names that are not
	// plain identifiers or that collide with internal tables.
	ErrInvalidCollection = errors.New("invalid collection name")
)
