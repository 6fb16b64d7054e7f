package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for storing resume profile images.
// Keys are treated as write-once: replacing content means writing a new key
// and deleting the old one afterwards, never overwriting in place.
type ObjectStore interface {
	// Save stores the reader contents under a fresh key in the user's
	// namespace and reports the sniffed MIME type.
	Save(ctx context.Context, userID int64, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)

	// Open returns the stored object for reading.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)

	// Copy duplicates the object at storageKey under a fresh key. The source
	// object is untouched; the copy has an independent lifetime.
	Copy(ctx context.Context, storageKey string) (newKey string, err error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, storageKey string) error

	// PresignGet returns a time-limited URL for fetching the object.
	PresignGet(ctx context.Context, storageKey string, ttl time.Duration) (string, error)
}
