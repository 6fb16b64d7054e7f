package postings

import "context"

// Repo defines persistence operations for job postings.
type Repo interface {
	Create(ctx context.Context, posting Posting) (int64, error)
	GetByID(ctx context.Context, postingID int64) (Posting, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Posting, error)
	Delete(ctx context.Context, postingID int64) error
}
