package files

import (
	"context"
	"database/sql"
)

// Repo defines persistence operations for file records.
type Repo interface {
	Create(ctx context.Context, file File) (int64, error)
	// CreateTx inserts a file row inside an existing transaction so callers
	// can attach files atomically with the rows they belong to.
	CreateTx(ctx context.Context, tx *sql.Tx, file File) (int64, error)
	GetByID(ctx context.Context, fileID int64) (File, error)
	// Latest returns the most recent file for the attachment point, or
	// ErrNotFound when none exists.
	Latest(ctx context.Context, fileableTable string, fileableID int64, purpose string) (File, error)
	ListFor(ctx context.Context, fileableTable string, fileableID int64, purpose string) ([]File, error)
	Delete(ctx context.Context, fileID int64) error
}
