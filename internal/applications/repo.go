package applications

import "context"

// Repo defines persistence operations for job applications.
type Repo interface {
	Create(ctx context.Context, application Application) (int64, error)
	GetByID(ctx context.Context, applicationID int64) (Application, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Application, error)
	ExistsForPosting(ctx context.Context, userID, postingID int64) (bool, error)
	Delete(ctx context.Context, applicationID int64) error
}
