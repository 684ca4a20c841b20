package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist.
	ErrNotFound = errors.New("resume not found")

	// ErrForbidden indicates the caller neither owns the resume nor is an admin.
	ErrForbidden = errors.New("forbidden")

	ErrInvalidInput = errors.New("invalid input")
)
