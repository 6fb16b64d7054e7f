package applications

import "errors"

var (
	// ErrNotFound indicates the application does not exist.
	ErrNotFound = errors.New("application not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller does not own the application.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicate indicates the user already applied to the posting.
	ErrDuplicate = errors.New("already applied to this posting")
)
