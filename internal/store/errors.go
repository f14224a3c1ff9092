package store

import "errors"

var (
	// ErrNotFound is returned when an entity id is not in its collection
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity fails validation
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidReference is returned when an entity references a missing project, customer or supplier
	ErrInvalidReference = errors.New("invalid reference")

	// ErrPersist is returned when the snapshot could not be written; the in-memory state is unchanged
	ErrPersist = errors.New("failed to persist snapshot")

	// ErrNotLoaded is returned when the store is used before Load
	ErrNotLoaded = errors.New("store not loaded")

	// ErrUnknownCollection is returned for a collection name the store does not hold
	ErrUnknownCollection = errors.New("unknown collection")
)
