package feedback

import "errors"

var (
	// ErrNotFound indicates the feedback does not exist.
	ErrNotFound = errors.New("feedback not found")

	// ErrForbidden indicates the caller does not own the feedback.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeneration indicates the LLM call failed or returned output that
	// does not satisfy the expected schema. Nothing is persisted.
	ErrGeneration = errors.New("generation failed")
)
