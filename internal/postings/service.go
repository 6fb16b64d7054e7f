package postings

import (
	"context"
	"fmt"
	"strings"

	"jobseeker-backend/internal/shared/telemetry"
)

// Service wraps posting business rules over a Repo.
type Service struct {
	Repo Repo
}

// CreateInput carries the fields accepted when registering a posting.
type CreateInput struct {
	URL           string
	Title         string
	Company       string
	Qualification string
	Prefer        string
}

// Create validates and stores a posting for the user.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (Posting, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	if in.Title == "" {
		return Posting{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Company == "" {
		return Posting{}, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}

	id, err := s.Repo.Create(ctx, Posting{
		UserID:        userID,
		URL:           strings.TrimSpace(in.URL),
		Title:         in.Title,
		Company:       in.Company,
		Qualification: in.Qualification,
		Prefer:        in.Prefer,
	})
	if err != nil {
		return Posting{}, fmt.Errorf("create posting: %w", err)
	}
	return s.Repo.GetByID(ctx, id)
}

// Get returns a posting owned by the user.
func (s *Service) Get(ctx context.Context, userID, postingID int64) (Posting, error) {
	posting, err := s.Repo.GetByID(ctx, postingID)
	if err != nil {
		return Posting{}, err
	}
	if posting.UserID != userID {
		telemetry.AuthzDenied("posting", postingID, userID, posting.UserID)
		return Posting{}, ErrForbidden
	}
	return posting, nil
}

// List returns the user's postings, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Posting, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a posting after checking ownership.
func (s *Service) Delete(ctx context.Context, userID, postingID int64) error {
	posting, err := s.Repo.GetByID(ctx, postingID)
	if err != nil {
		return err
	}
	if posting.UserID != userID {
		telemetry.AuthzDenied("posting", postingID, userID, posting.UserID)
		return ErrForbidden
	}
	return s.Repo.Delete(ctx, postingID)
}
