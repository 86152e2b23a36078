package domain

import "errors"

var (
	// ErrEmptyInput means at least one required vector has zero length.
	ErrEmptyInput = errors.New("at least one vector is empty")
	// ErrSizeMismatch means required vectors have unequal lengths.
	ErrSizeMismatch = errors.New("not all vectors have the same size")
	// ErrMissingField means a required vector is not registered in the store.
	ErrMissingField = errors.New("variable not found")
	// ErrWrongType means a vector was requested with the wrong element type.
	ErrWrongType = errors.New("variable has a different type")
)
