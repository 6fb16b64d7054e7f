package codes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Label resolves a single (division, detail_id) pair.
func (r *PGRepo) Label(ctx context.Context, division, detailID string) (string, error) {
	const query = `
SELECT code_detail
FROM codes
WHERE division = $1 AND detail_id = $2
LIMIT 1`
	var label string
	err := r.DB.QueryRowContext(ctx, query, division, detailID).Scan(&label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return label, nil
}

// Labels resolves all given detail ids within a division in one query.
func (r *PGRepo) Labels(ctx context.Context, division string, detailIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(detailIDs))
	distinct := dedupe(detailIDs)
	if len(distinct) == 0 {
		return out, nil
	}

	placeholders := make([]string, 0, len(distinct))
	args := make([]any, 0, len(distinct)+1)
	args = append(args, division)
	for i, id := range distinct {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}

	query := fmt.Sprintf(`
SELECT detail_id, code_detail
FROM codes
WHERE division = $1 AND detail_id IN (%s)`, strings.Join(placeholders, ", "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var detailID, label string
		if err := rows.Scan(&detailID, &label); err != nil {
			return nil, err
		}
		out[detailID] = label
	}
	return out, rows.Err()
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var _ Repo = (*PGRepo)(nil)
