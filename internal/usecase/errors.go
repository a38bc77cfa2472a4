package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrMalformedState        = errors.New("malformed draft state")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
