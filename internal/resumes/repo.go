package resumes

import (
	"context"
	"database/sql"
)

// AttachFn runs inside the resume-creation transaction once the new resume id
// is known, so callers can attach dependent rows (a copied image record)
// atomically with the resume. Memory implementations invoke it with a nil tx.
type AttachFn func(ctx context.Context, tx *sql.Tx, resumeID int64) error

// Repo defines persistence operations for resumes and their children.
type Repo interface {
	// Create inserts the resume and all child rows in one transaction. attach
	// may be nil.
	Create(ctx context.Context, resume Resume, attach AttachFn) (int64, error)
	// GetByID returns the active parent row without children.
	GetByID(ctx context.Context, resumeID int64) (Resume, error)
	// GetProjection returns the full read model: parent with resolved code
	// labels, all child collections, and the active image key.
	GetProjection(ctx context.Context, resumeID int64) (Projection, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Summary, error)
	// Update replaces the scalar fields and all child collections wholesale
	// in one transaction.
	Update(ctx context.Context, resume Resume) error
	// SoftDelete marks the resume inactive.
	SoftDelete(ctx context.Context, resumeID int64) error
}
