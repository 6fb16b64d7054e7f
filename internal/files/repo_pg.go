package files

import (
	"context"
	"database/sql"
	"errors"
)

const insertFileQuery = `
INSERT INTO files (user_id, fileable_id, fileable_table, purpose, org_file_name, mod_file_name, filetype, file_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING file_id`

const selectFileColumns = `
SELECT file_id, user_id, fileable_id, fileable_table, purpose, org_file_name, mod_file_name, filetype, file_key, created_at
FROM files`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a file row and returns its generated id.
func (r *PGRepo) Create(ctx context.Context, file File) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, insertFileQuery,
		file.UserID, file.FileableID, file.FileableTable, file.Purpose,
		file.OrgFileName, file.ModFileName, file.FileType, file.FileKey,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CreateTx inserts a file row inside an existing transaction.
func (r *PGRepo) CreateTx(ctx context.Context, tx *sql.Tx, file File) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, insertFileQuery,
		file.UserID, file.FileableID, file.FileableTable, file.Purpose,
		file.OrgFileName, file.ModFileName, file.FileType, file.FileKey,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID returns a file row by id.
func (r *PGRepo) GetByID(ctx context.Context, fileID int64) (File, error) {
	query := selectFileColumns + `
WHERE file_id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, fileID))
}

// Latest returns the most recent file for the attachment point.
func (r *PGRepo) Latest(ctx context.Context, fileableTable string, fileableID int64, purpose string) (File, error) {
	query := selectFileColumns + `
WHERE fileable_table = $1 AND fileable_id = $2 AND purpose = $3
ORDER BY created_at DESC, file_id DESC
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, fileableTable, fileableID, purpose))
}

// ListFor returns all files for the attachment point, newest first.
func (r *PGRepo) ListFor(ctx context.Context, fileableTable string, fileableID int64, purpose string) ([]File, error) {
	query := selectFileColumns + `
WHERE fileable_table = $1 AND fileable_id = $2 AND purpose = $3
ORDER BY created_at DESC, file_id DESC`

	rows, err := r.DB.QueryContext(ctx, query, fileableTable, fileableID, purpose)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var file File
		if err := rows.Scan(
			&file.ID, &file.UserID, &file.FileableID, &file.FileableTable, &file.Purpose,
			&file.OrgFileName, &file.ModFileName, &file.FileType, &file.FileKey, &file.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, rows.Err()
}

// Delete removes a file row.
func (r *PGRepo) Delete(ctx context.Context, fileID int64) error {
	const query = `DELETE FROM files WHERE file_id = $1`
	res, err := r.DB.ExecContext(ctx, query, fileID)
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

func (r *PGRepo) scanOne(row *sql.Row) (File, error) {
	var file File
	err := row.Scan(
		&file.ID, &file.UserID, &file.FileableID, &file.FileableTable, &file.Purpose,
		&file.OrgFileName, &file.ModFileName, &file.FileType, &file.FileKey, &file.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, err
	}
	return file, nil
}

var _ Repo = (*PGRepo)(nil)
