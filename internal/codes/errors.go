package codes

import "errors"

// ErrNotFound indicates no code exists for the given division and detail id.
var ErrNotFound = errors.New("code not found")
