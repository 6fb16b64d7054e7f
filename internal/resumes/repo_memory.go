package resumes

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobseeker-backend/internal/codes"
)

// MemoryRepo implements Repo in memory for dev and tests.
type MemoryRepo struct {
	// Codes resolves labels for projections.
	Codes codes.Repo
	// ImageKey, when set, supplies the active image key for projections. The
	// Postgres implementation reads the files table directly; in memory the
	// files repo is wired here.
	ImageKey func(ctx context.Context, resumeID int64) (string, error)

	mu     sync.RWMutex
	nextID int64
	items  map[int64]Resume
}

// NewMemoryRepo creates an empty MemoryRepo backed by the given code lookup.
func NewMemoryRepo(codeRepo codes.Repo) *MemoryRepo {
	return &MemoryRepo{Codes: codeRepo, nextID: 1, items: make(map[int64]Resume)}
}

// Create inserts the resume with its children and runs attach with a nil tx.
func (m *MemoryRepo) Create(ctx context.Context, resume Resume, attach AttachFn) (int64, error) {
	m.mu.Lock()
	resume.ID = m.nextID
	m.nextID++
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	resume.IsActive = true
	m.items[resume.ID] = resume
	m.mu.Unlock()

	if attach != nil {
		if err := attach(ctx, nil, resume.ID); err != nil {
			m.mu.Lock()
			delete(m.items, resume.ID)
			m.mu.Unlock()
			return 0, err
		}
	}
	return resume.ID, nil
}

// GetByID returns the active parent row without children.
func (m *MemoryRepo) GetByID(ctx context.Context, resumeID int64) (Resume, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	resume, ok := m.items[resumeID]
	if !ok || !resume.IsActive {
		return Resume{}, ErrNotFound
	}
	parent := resume
	parent.Experiences = nil
	parent.Educations = nil
	parent.Projects = nil
	parent.Activities = nil
	parent.Qualifications = nil
	parent.TechnologyStacks = nil
	return parent, nil
}

// GetProjection returns the full read model for an active resume.
func (m *MemoryRepo) GetProjection(ctx context.Context, resumeID int64) (Projection, error) {
	m.mu.RLock()
	resume, ok := m.items[resumeID]
	m.mu.RUnlock()
	if !ok || !resume.IsActive {
		return Projection{}, ErrNotFound
	}

	// The stored value shares slice backing arrays with the map entry; copy
	// the children so label decoration never mutates repo state.
	p := Projection{Resume: cloneChildren(resume)}
	if m.Codes != nil {
		if label, err := m.Codes.Label(ctx, codes.DivisionGender, resume.Gender); err == nil {
			p.GenderLabel = label
		}
		if label, err := m.Codes.Label(ctx, codes.DivisionResumeType, resume.ResumeType); err == nil {
			p.ResumeTypeLabel = label
		}
		if label, err := m.Codes.Label(ctx, codes.DivisionMilitary, resume.MilitaryService); err == nil {
			p.MilitaryServiceLabel = label
		}
		for i := range p.Educations {
			if label, err := m.Codes.Label(ctx, codes.DivisionDegree, p.Educations[i].DegreeLevel); err == nil {
				p.Educations[i].DegreeLabel = label
			}
		}
	}
	if m.ImageKey != nil {
		key, err := m.ImageKey(ctx, resumeID)
		if err == nil {
			p.ImageKey = key
		}
	}
	return p, nil
}

func cloneChildren(r Resume) Resume {
	r.Experiences = append([]Experience(nil), r.Experiences...)
	r.Educations = append([]Education(nil), r.Educations...)
	r.Projects = append([]Project(nil), r.Projects...)
	r.Activities = append([]Activity(nil), r.Activities...)
	r.Qualifications = append([]Qualification(nil), r.Qualifications...)
	r.TechnologyStacks = append([]TechnologyStack(nil), r.TechnologyStacks...)
	return r
}

// ListByUser lists active resumes, newest first.
func (m *MemoryRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Summary, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []Summary
	for _, resume := range m.items {
		if resume.UserID == userID && resume.IsActive {
			all = append(all, Summary{ID: resume.ID, Title: resume.Title, ResumeType: resume.ResumeType, CreatedAt: resume.CreatedAt})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Update replaces the scalar fields and all child collections wholesale.
func (m *MemoryRepo) Update(ctx context.Context, resume Resume) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.items[resume.ID]
	if !ok || !current.IsActive {
		return ErrNotFound
	}
	resume.UserID = current.UserID
	resume.PostingID = current.PostingID
	resume.ResumeType = current.ResumeType
	resume.IsActive = true
	resume.CreatedAt = current.CreatedAt
	resume.UpdatedAt = time.Now().UTC()
	m.items[resume.ID] = resume
	return nil
}

// SoftDelete marks the resume inactive.
func (m *MemoryRepo) SoftDelete(ctx context.Context, resumeID int64) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	resume, ok := m.items[resumeID]
	if !ok || !resume.IsActive {
		return ErrNotFound
	}
	resume.IsActive = false
	resume.UpdatedAt = time.Now().UTC()
	m.items[resumeID] = resume
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
