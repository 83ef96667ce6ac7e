package usecase

import "errors"

var (
	// ErrValidation marks malformed input rejected before any side effect.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a unique-constraint violation, e.g. a taken email.
	ErrConflict = errors.New("already exists")
	// ErrAuth is the single credential failure. Its message never says which
	// check failed.
	ErrAuth = errors.New("Access Denied")
	// ErrForbidden marks an authenticated caller acting outside its role or ownership.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
)
