package applications

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts an application and returns its generated id.
func (r *PGRepo) Create(ctx context.Context, application Application) (int64, error) {
	const query = `
INSERT INTO applications (user_id, posting_id, resume_id, cover_letter)
VALUES ($1, $2, $3, $4)
RETURNING application_id`
	var id int64
	err := r.DB.QueryRowContext(ctx, query,
		application.UserID,
		application.PostingID,
		application.ResumeID,
		application.CoverLetter,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID returns an application by id.
func (r *PGRepo) GetByID(ctx context.Context, applicationID int64) (Application, error) {
	const query = `
SELECT application_id, user_id, posting_id, resume_id, cover_letter, created_at
FROM applications
WHERE application_id = $1
LIMIT 1`
	var application Application
	err := r.DB.QueryRowContext(ctx, query, applicationID).Scan(
		&application.ID,
		&application.UserID,
		&application.PostingID,
		&application.ResumeID,
		&application.CoverLetter,
		&application.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return application, nil
}

// ListByUser lists applications ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Application, error) {
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
SELECT application_id, user_id, posting_id, resume_id, cover_letter, created_at
FROM applications
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		var application Application
		if err := rows.Scan(
			&application.ID,
			&application.UserID,
			&application.PostingID,
			&application.ResumeID,
			&application.CoverLetter,
			&application.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, application)
	}
	return out, rows.Err()
}

// ExistsForPosting reports whether the user already applied to the posting.
func (r *PGRepo) ExistsForPosting(ctx context.Context, userID, postingID int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM applications WHERE user_id = $1 AND posting_id = $2
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, userID, postingID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Delete removes an application.
func (r *PGRepo) Delete(ctx context.Context, applicationID int64) error {
	const query = `DELETE FROM applications WHERE application_id = $1`
	res, err := r.DB.ExecContext(ctx, query, applicationID)
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
