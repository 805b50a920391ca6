package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup resolves no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint rejects an insert.
	ErrAlreadyExists = errors.New("already exists")
)
