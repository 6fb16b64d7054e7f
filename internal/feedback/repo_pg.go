package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobseeker-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts the parent row and all content rows in one transaction.
func (r *PGRepo) Create(ctx context.Context, fb Feedback) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const parentQuery = `
INSERT INTO resume_feedbacks (resume_id, user_id, posting_id, parent_content, matching_rate)
VALUES ($1, $2, $3, $4, $5)
RETURNING feedback_id`
		err := tx.QueryRowContext(ctx, parentQuery,
			fb.ResumeID, fb.UserID, fb.PostingID, fb.ParentContent, fb.MatchingRate,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert feedback: %w", err)
		}

		const contentQuery = `
INSERT INTO feedback_contents (feedback_id, feedback_division, feedback_result)
VALUES ($1, $2, $3)`
		for _, content := range fb.Contents {
			if _, err := tx.ExecContext(ctx, contentQuery, id, content.Division, content.Result); err != nil {
				return fmt.Errorf("insert feedback content: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetWithContents returns the feedback with its content rows eager-loaded.
func (r *PGRepo) GetWithContents(ctx context.Context, feedbackID int64) (Feedback, error) {
	const parentQuery = `
SELECT feedback_id, resume_id, user_id, posting_id, parent_content, matching_rate, created_at
FROM resume_feedbacks
WHERE feedback_id = $1
LIMIT 1`
	var fb Feedback
	err := r.DB.QueryRowContext(ctx, parentQuery, feedbackID).Scan(
		&fb.ID, &fb.ResumeID, &fb.UserID, &fb.PostingID, &fb.ParentContent, &fb.MatchingRate, &fb.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Feedback{}, ErrNotFound
		}
		return Feedback{}, err
	}

	const contentQuery = `
SELECT content_id, feedback_id, feedback_division, feedback_result
FROM feedback_contents
WHERE feedback_id = $1
ORDER BY content_id`
	rows, err := r.DB.QueryContext(ctx, contentQuery, feedbackID)
	if err != nil {
		return Feedback{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var content Content
		if err := rows.Scan(&content.ID, &content.FeedbackID, &content.Division, &content.Result); err != nil {
			return Feedback{}, err
		}
		fb.Contents = append(fb.Contents, content)
	}
	if err := rows.Err(); err != nil {
		return Feedback{}, err
	}
	return fb, nil
}

// ListByUser returns the user's feedback parents, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Feedback, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT feedback_id, resume_id, user_id, posting_id, parent_content, matching_rate, created_at
FROM resume_feedbacks
WHERE user_id = $1
ORDER BY created_at DESC, feedback_id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.ResumeID, &fb.UserID, &fb.PostingID, &fb.ParentContent, &fb.MatchingRate, &fb.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

// Delete removes the feedback; content rows go with it via the cascade.
func (r *PGRepo) Delete(ctx context.Context, feedbackID int64) error {
	const query = `DELETE FROM resume_feedbacks WHERE feedback_id = $1`
	res, err := r.DB.ExecContext(ctx, query, feedbackID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
