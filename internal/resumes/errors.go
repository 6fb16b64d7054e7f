package resumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or is inactive.
	ErrNotFound = errors.New("resume not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller does not own the resume.
	ErrForbidden = errors.New("forbidden")
)
