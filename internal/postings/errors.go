package postings

import "errors"

var (
	// ErrNotFound indicates the posting does not exist.
	ErrNotFound = errors.New("posting not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller does not own the posting.
	ErrForbidden = errors.New("forbidden")
)
