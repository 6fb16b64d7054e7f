package feedback

import "context"

// Repo defines persistence operations for feedback and its contents.
type Repo interface {
	// Create inserts the parent row and all content rows in one transaction.
	// Either everything commits or nothing does.
	Create(ctx context.Context, fb Feedback) (int64, error)
	// GetWithContents returns the feedback with its content rows eager-loaded.
	GetWithContents(ctx context.Context, feedbackID int64) (Feedback, error)
	// ListByUser returns the user's feedback parents, newest first, without
	// content rows.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Feedback, error)
	Delete(ctx context.Context, feedbackID int64) error
}
