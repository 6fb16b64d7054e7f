package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobseeker-backend/internal/codes"
	"jobseeker-backend/internal/shared/storage/db"
)

const insertResumeQuery = `
INSERT INTO resumes (user_id, posting_id, resume_type, is_active, title, name, email, gender, address, phone, military_service, birth_date, self_introduction)
VALUES ($1, $2, $3, TRUE, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING resume_id`

// PGRepo implements Repo using Postgres. Code labels for the projection come
// from joins against the codes table; degree labels are resolved in a second
// batch pass through Codes.
type PGRepo struct {
	DB    *sql.DB
	Codes codes.Repo
}

// Create inserts the resume and all child rows in one transaction.
func (r *PGRepo) Create(ctx context.Context, resume Resume, attach AttachFn) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, insertResumeQuery,
			resume.UserID,
			resume.PostingID,
			resume.ResumeType,
			resume.Title,
			resume.Name,
			resume.Email,
			resume.Gender,
			nullString(resume.Address),
			resume.Phone,
			resume.MilitaryService,
			resume.BirthDate,
			nullString(resume.SelfIntroduction),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert resume: %w", err)
		}
		if err := insertChildren(ctx, tx, id, resume); err != nil {
			return err
		}
		if attach != nil {
			if err := attach(ctx, tx, id); err != nil {
				return fmt.Errorf("attach: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID returns the active parent row without children.
func (r *PGRepo) GetByID(ctx context.Context, resumeID int64) (Resume, error) {
	const query = `
SELECT resume_id, user_id, posting_id, resume_type, title, name, email, gender, COALESCE(address, ''), phone, military_service, birth_date, COALESCE(self_introduction, ''), created_at, updated_at
FROM resumes
WHERE resume_id = $1 AND is_active
LIMIT 1`
	var resume Resume
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&resume.ID,
		&resume.UserID,
		&resume.PostingID,
		&resume.ResumeType,
		&resume.Title,
		&resume.Name,
		&resume.Email,
		&resume.Gender,
		&resume.Address,
		&resume.Phone,
		&resume.MilitaryService,
		&resume.BirthDate,
		&resume.SelfIntroduction,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	resume.IsActive = true
	return resume, nil
}

// GetProjection returns the full read model for an active resume.
func (r *PGRepo) GetProjection(ctx context.Context, resumeID int64) (Projection, error) {
	const query = `
SELECT r.resume_id, r.user_id, r.posting_id, r.resume_type, r.title, r.name, r.email, r.gender,
       COALESCE(r.address, ''), r.phone, r.military_service, r.birth_date,
       COALESCE(r.self_introduction, ''), r.created_at, r.updated_at,
       COALESCE(cg.code_detail, ''), COALESCE(ct.code_detail, ''), COALESCE(cm.code_detail, ''),
       COALESCE((
           SELECT f.file_key FROM files f
           WHERE f.fileable_table = 'resumes' AND f.fileable_id = r.resume_id AND f.purpose = 'resume_image'
           ORDER BY f.created_at DESC, f.file_id DESC
           LIMIT 1
       ), '')
FROM resumes r
LEFT JOIN codes cg ON cg.division = 'gender' AND cg.detail_id = r.gender
LEFT JOIN codes ct ON ct.division = 'resume_type' AND ct.detail_id = r.resume_type
LEFT JOIN codes cm ON cm.division = 'military' AND cm.detail_id = r.military_service
WHERE r.resume_id = $1 AND r.is_active
LIMIT 1`

	var p Projection
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&p.ID,
		&p.UserID,
		&p.PostingID,
		&p.ResumeType,
		&p.Title,
		&p.Name,
		&p.Email,
		&p.Gender,
		&p.Address,
		&p.Phone,
		&p.MilitaryService,
		&p.BirthDate,
		&p.SelfIntroduction,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.GenderLabel,
		&p.ResumeTypeLabel,
		&p.MilitaryServiceLabel,
		&p.ImageKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Projection{}, ErrNotFound
		}
		return Projection{}, err
	}
	p.IsActive = true

	if err := r.loadChildren(ctx, &p.Resume); err != nil {
		return Projection{}, err
	}
	if err := r.resolveDegreeLabels(ctx, p.Educations); err != nil {
		return Projection{}, err
	}
	return p, nil
}

// ListByUser lists active resumes, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Summary, error) {
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
SELECT resume_id, title, resume_type, created_at
FROM resumes
WHERE user_id = $1 AND is_active
ORDER BY created_at DESC, resume_id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.ResumeType, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update replaces the scalar fields and all child collections wholesale.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const query = `
UPDATE resumes
SET title = $1, name = $2, email = $3, gender = $4, address = $5, phone = $6,
    military_service = $7, birth_date = $8, self_introduction = $9, updated_at = now()
WHERE resume_id = $10 AND is_active`
		res, err := tx.ExecContext(ctx, query,
			resume.Title,
			resume.Name,
			resume.Email,
			resume.Gender,
			nullString(resume.Address),
			resume.Phone,
			resume.MilitaryService,
			resume.BirthDate,
			nullString(resume.SelfIntroduction),
			resume.ID,
		)
		if err != nil {
			return fmt.Errorf("update resume: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}

		for _, table := range []string{"experiences", "educations", "projects", "activities", "qualifications", "technology_stacks"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE resume_id = $1", resume.ID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return insertChildren(ctx, tx, resume.ID, resume)
	})
}

// SoftDelete marks the resume inactive.
func (r *PGRepo) SoftDelete(ctx context.Context, resumeID int64) error {
	const query = `UPDATE resumes SET is_active = FALSE, updated_at = now() WHERE resume_id = $1 AND is_active`
	res, err := r.DB.ExecContext(ctx, query, resumeID)
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

func insertChildren(ctx context.Context, tx *sql.Tx, resumeID int64, resume Resume) error {
	for _, e := range resume.Experiences {
		const query = `
INSERT INTO experiences (resume_id, job_title, department, position, job_description, employment_status, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.ExecContext(ctx, query, resumeID, e.JobTitle, e.Department, nullString(e.Position), nullString(e.JobDescription), e.EmploymentStatus, e.StartDate, e.EndDate); err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}
	for _, e := range resume.Educations {
		const query = `
INSERT INTO educations (resume_id, organ, department, degree_level, score, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, query, resumeID, e.Organ, e.Department, e.DegreeLevel, nullString(e.Score), e.StartDate, e.EndDate); err != nil {
			return fmt.Errorf("insert education: %w", err)
		}
	}
	for _, p := range resume.Projects {
		const query = `
INSERT INTO projects (resume_id, title, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, resumeID, p.Title, p.StartDate, p.EndDate, nullString(p.Description)); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
	}
	for _, a := range resume.Activities {
		const query = `
INSERT INTO activities (resume_id, title, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, resumeID, a.Title, a.StartDate, a.EndDate, nullString(a.Description)); err != nil {
			return fmt.Errorf("insert activity: %w", err)
		}
	}
	for _, q := range resume.Qualifications {
		const query = `
INSERT INTO qualifications (resume_id, title, acquisition_date, score, organ)
VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, resumeID, q.Title, q.AcquisitionDate, nullString(q.Score), nullString(q.Organ)); err != nil {
			return fmt.Errorf("insert qualification: %w", err)
		}
	}
	for _, s := range resume.TechnologyStacks {
		const query = `
INSERT INTO technology_stacks (resume_id, title)
VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, resumeID, s.Title); err != nil {
			return fmt.Errorf("insert technology stack: %w", err)
		}
	}
	return nil
}

func (r *PGRepo) loadChildren(ctx context.Context, resume *Resume) error {
	id := resume.ID

	err := r.queryEach(ctx, `
SELECT experience_id, job_title, department, COALESCE(position, ''), COALESCE(job_description, ''), employment_status, start_date, end_date
FROM experiences WHERE resume_id = $1 ORDER BY start_date, experience_id`, id, func(rows *sql.Rows) error {
		var e Experience
		if err := rows.Scan(&e.ID, &e.JobTitle, &e.Department, &e.Position, &e.JobDescription, &e.EmploymentStatus, &e.StartDate, &e.EndDate); err != nil {
			return err
		}
		e.ResumeID = id
		resume.Experiences = append(resume.Experiences, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load experiences: %w", err)
	}

	err = r.queryEach(ctx, `
SELECT education_id, organ, department, degree_level, COALESCE(score, ''), start_date, end_date
FROM educations WHERE resume_id = $1 ORDER BY start_date, education_id`, id, func(rows *sql.Rows) error {
		var e Education
		if err := rows.Scan(&e.ID, &e.Organ, &e.Department, &e.DegreeLevel, &e.Score, &e.StartDate, &e.EndDate); err != nil {
			return err
		}
		e.ResumeID = id
		resume.Educations = append(resume.Educations, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load educations: %w", err)
	}

	err = r.queryEach(ctx, `
SELECT project_id, title, start_date, end_date, COALESCE(description, '')
FROM projects WHERE resume_id = $1 ORDER BY start_date, project_id`, id, func(rows *sql.Rows) error {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.StartDate, &p.EndDate, &p.Description); err != nil {
			return err
		}
		p.ResumeID = id
		resume.Projects = append(resume.Projects, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}

	err = r.queryEach(ctx, `
SELECT activity_id, title, start_date, end_date, COALESCE(description, '')
FROM activities WHERE resume_id = $1 ORDER BY start_date, activity_id`, id, func(rows *sql.Rows) error {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Title, &a.StartDate, &a.EndDate, &a.Description); err != nil {
			return err
		}
		a.ResumeID = id
		resume.Activities = append(resume.Activities, a)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}

	err = r.queryEach(ctx, `
SELECT qualification_id, title, acquisition_date, COALESCE(score, ''), COALESCE(organ, '')
FROM qualifications WHERE resume_id = $1 ORDER BY acquisition_date, qualification_id`, id, func(rows *sql.Rows) error {
		var q Qualification
		if err := rows.Scan(&q.ID, &q.Title, &q.AcquisitionDate, &q.Score, &q.Organ); err != nil {
			return err
		}
		q.ResumeID = id
		resume.Qualifications = append(resume.Qualifications, q)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load qualifications: %w", err)
	}

	err = r.queryEach(ctx, `
SELECT technology_stack_id, title
FROM technology_stacks WHERE resume_id = $1 ORDER BY technology_stack_id`, id, func(rows *sql.Rows) error {
		var s TechnologyStack
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return err
		}
		s.ResumeID = id
		resume.TechnologyStacks = append(resume.TechnologyStacks, s)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load technology stacks: %w", err)
	}
	return nil
}

func (r *PGRepo) queryEach(ctx context.Context, query string, resumeID int64, scan func(rows *sql.Rows) error) error {
	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepo) resolveDegreeLabels(ctx context.Context, educations []Education) error {
	if len(educations) == 0 {
		return nil
	}
	ids := make([]string, 0, len(educations))
	for _, e := range educations {
		ids = append(ids, e.DegreeLevel)
	}
	labels, err := r.Codes.Labels(ctx, codes.DivisionDegree, ids)
	if err != nil {
		return fmt.Errorf("resolve degree labels: %w", err)
	}
	for i := range educations {
		educations[i].DegreeLabel = labels[educations[i].DegreeLevel]
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
