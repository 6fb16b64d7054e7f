package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"jobseeker-backend/internal/files"
	"jobseeker-backend/internal/shared/telemetry"
)

// Service wraps resume business rules over a Repo and the file service.
type Service struct {
	Repo  Repo
	Files *files.Service
}

// Create validates and stores a user-authored resume with its children.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (Projection, error) {
	if err := in.Validate(); err != nil {
		return Projection{}, err
	}
	resume := in.toResume()
	resume.UserID = userID
	resume.ResumeType = TypeUserAuthored

	id, err := s.Repo.Create(ctx, resume, nil)
	if err != nil {
		return Projection{}, fmt.Errorf("create resume: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// Get returns the decorated projection for a resume the user owns, with a
// presigned image URL when an image exists.
func (s *Service) Get(ctx context.Context, userID, resumeID int64) (Projection, error) {
	p, err := s.Repo.GetProjection(ctx, resumeID)
	if err != nil {
		return Projection{}, err
	}
	if p.UserID != userID {
		telemetry.AuthzDenied("resume", resumeID, userID, p.UserID)
		return Projection{}, ErrForbidden
	}
	if p.ImageKey != "" && s.Files != nil {
		url, err := s.Files.PresignKey(ctx, p.ImageKey)
		if err != nil {
			telemetry.Error("resumes.presign_failed", map[string]any{
				"resume_id": resumeID,
				"error":     err.Error(),
			})
		} else {
			p.ImageURL = url
		}
	}
	return p, nil
}

// Projection returns the decorated projection without an ownership check.
// Internal callers must authorize before acting on the result.
func (s *Service) Projection(ctx context.Context, resumeID int64) (Projection, error) {
	return s.Repo.GetProjection(ctx, resumeID)
}

// List returns the user's active resumes, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Summary, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Update replaces a resume's scalar fields and child collections wholesale.
func (s *Service) Update(ctx context.Context, userID, resumeID int64, in CreateInput) (Projection, error) {
	if err := in.Validate(); err != nil {
		return Projection{}, err
	}
	current, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Projection{}, err
	}
	if current.UserID != userID {
		telemetry.AuthzDenied("resume", resumeID, userID, current.UserID)
		return Projection{}, ErrForbidden
	}

	resume := in.toResume()
	resume.ID = resumeID
	resume.UserID = userID
	if err := s.Repo.Update(ctx, resume); err != nil {
		return Projection{}, fmt.Errorf("update resume: %w", err)
	}
	return s.Get(ctx, userID, resumeID)
}

// Delete marks a resume inactive after checking ownership.
func (s *Service) Delete(ctx context.Context, userID, resumeID int64) error {
	current, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return err
	}
	if current.UserID != userID {
		telemetry.AuthzDenied("resume", resumeID, userID, current.UserID)
		return ErrForbidden
	}
	return s.Repo.SoftDelete(ctx, resumeID)
}

// UploadImage stores a profile image for a resume the user owns.
func (s *Service) UploadImage(ctx context.Context, userID, resumeID int64, fileName string, r io.Reader, declaredSize int64) (files.File, error) {
	current, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return files.File{}, err
	}
	if current.UserID != userID {
		telemetry.AuthzDenied("resume", resumeID, userID, current.UserID)
		return files.File{}, ErrForbidden
	}
	return s.Files.UploadResumeImage(ctx, userID, resumeID, fileName, r, declaredSize)
}

// Materialize persists a generated revision as a new resume: the payload's
// rows plus a copy of the parent resume's image, all committed in one
// transaction. resumeType is the marker of the feedback kind the revision came
// from; postingID carries the posting for posting-derived revisions.
func (s *Service) Materialize(ctx context.Context, userID, parentID int64, payload CreateInput, resumeType string, postingID *int64) (Projection, error) {
	if err := payload.Validate(); err != nil {
		return Projection{}, err
	}

	image, err := s.Files.CloneActiveImage(ctx, parentID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return Projection{}, fmt.Errorf("%w: parent resume has no image", ErrNotFound)
		}
		return Projection{}, err
	}
	image.UserID = userID

	resume := payload.toResume()
	resume.UserID = userID
	resume.ResumeType = resumeType
	resume.PostingID = postingID

	attach := func(ctx context.Context, tx *sql.Tx, resumeID int64) error {
		image.FileableID = resumeID
		_, err := s.Files.Repo.CreateTx(ctx, tx, image)
		return err
	}

	id, err := s.Repo.Create(ctx, resume, attach)
	if err != nil {
		// The copied object is orphaned once the tx rolls back.
		if delErr := s.Files.DeleteObject(ctx, image.FileKey); delErr != nil {
			telemetry.Error("resumes.materialize_cleanup_failed", map[string]any{
				"file_key": image.FileKey,
				"error":    delErr.Error(),
			})
		}
		return Projection{}, fmt.Errorf("materialize resume: %w", err)
	}
	return s.Get(ctx, userID, id)
}
