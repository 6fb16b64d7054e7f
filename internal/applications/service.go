package applications

import (
	"context"
	"fmt"
	"strings"

	"jobseeker-backend/internal/postings"
	"jobseeker-backend/internal/resumes"
	"jobseeker-backend/internal/shared/telemetry"
)

// Service wraps application business rules over a Repo. The posting and resume
// services supply the existence and ownership checks.
type Service struct {
	Repo     Repo
	Resumes  *resumes.Service
	Postings *postings.Service
}

// ApplyInput carries the fields accepted when applying to a posting.
type ApplyInput struct {
	PostingID   int64
	ResumeID    int64
	CoverLetter string
}

// Apply submits the user's resume to one of their registered postings. The
// posting must exist, the resume must belong to the user, and the user must
// not have applied to that posting before.
func (s *Service) Apply(ctx context.Context, userID int64, in ApplyInput) (Application, error) {
	if in.PostingID <= 0 {
		return Application{}, fmt.Errorf("%w: posting id is required", ErrInvalidInput)
	}
	if in.ResumeID <= 0 {
		return Application{}, fmt.Errorf("%w: resume id is required", ErrInvalidInput)
	}

	if _, err := s.Postings.Get(ctx, userID, in.PostingID); err != nil {
		return Application{}, err
	}
	if _, err := s.Resumes.Get(ctx, userID, in.ResumeID); err != nil {
		return Application{}, err
	}

	exists, err := s.Repo.ExistsForPosting(ctx, userID, in.PostingID)
	if err != nil {
		return Application{}, fmt.Errorf("check duplicate application: %w", err)
	}
	if exists {
		return Application{}, ErrDuplicate
	}

	id, err := s.Repo.Create(ctx, Application{
		UserID:      userID,
		PostingID:   in.PostingID,
		ResumeID:    in.ResumeID,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
	})
	if err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns the user's applications, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Application, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Cancel withdraws an application the user owns.
func (s *Service) Cancel(ctx context.Context, userID, applicationID int64) error {
	application, err := s.Repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if application.UserID != userID {
		telemetry.AuthzDenied("application", applicationID, userID, application.UserID)
		return ErrForbidden
	}
	return s.Repo.Delete(ctx, applicationID)
}
