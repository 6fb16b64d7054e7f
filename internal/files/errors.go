package files

import "errors"

var (
	// ErrNotFound indicates no matching file row exists.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidInput indicates a rejected upload (type, size, name).
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller does not own the file.
	ErrForbidden = errors.New("forbidden")
)
