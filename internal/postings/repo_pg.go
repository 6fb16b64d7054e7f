package postings

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a posting and returns its generated id.
func (r *PGRepo) Create(ctx context.Context, posting Posting) (int64, error) {
	const query = `
INSERT INTO job_postings (user_id, url, title, company, qualification, prefer, end_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING posting_id`
	var id int64
	err := r.DB.QueryRowContext(ctx, query,
		posting.UserID,
		nullString(posting.URL),
		posting.Title,
		posting.Company,
		posting.Qualification,
		posting.Prefer,
		posting.EndDate,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID returns a posting by id.
func (r *PGRepo) GetByID(ctx context.Context, postingID int64) (Posting, error) {
	const query = `
SELECT posting_id, user_id, COALESCE(url, ''), title, company, qualification, prefer, end_date, created_at
FROM job_postings
WHERE posting_id = $1
LIMIT 1`
	var posting Posting
	err := r.DB.QueryRowContext(ctx, query, postingID).Scan(
		&posting.ID,
		&posting.UserID,
		&posting.URL,
		&posting.Title,
		&posting.Company,
		&posting.Qualification,
		&posting.Prefer,
		&posting.EndDate,
		&posting.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, err
	}
	return posting, nil
}

// ListByUser lists postings ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Posting, error) {
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
SELECT posting_id, user_id, COALESCE(url, ''), title, company, qualification, prefer, end_date, created_at
FROM job_postings
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Posting
	for rows.Next() {
		var posting Posting
		if err := rows.Scan(
			&posting.ID,
			&posting.UserID,
			&posting.URL,
			&posting.Title,
			&posting.Company,
			&posting.Qualification,
			&posting.Prefer,
			&posting.EndDate,
			&posting.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, posting)
	}
	return out, rows.Err()
}

// Delete removes a posting.
func (r *PGRepo) Delete(ctx context.Context, postingID int64) error {
	const query = `DELETE FROM job_postings WHERE posting_id = $1`
	res, err := r.DB.ExecContext(ctx, query, postingID)
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

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
