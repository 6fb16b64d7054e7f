package feedback

import (
	"context"
	"encoding/json"
	"fmt"

	"jobseeker-backend/internal/codes"
	"jobseeker-backend/internal/llm"
	"jobseeker-backend/internal/postings"
	"jobseeker-backend/internal/resumes"
	"jobseeker-backend/internal/shared/telemetry"
)

// Service drives the feedback pipeline: build the resume projection, ask the
// LLM for a critique, persist it atomically, and later turn stored feedback
// into a revised resume.
type Service struct {
	Repo     Repo
	Codes    codes.Repo
	Resumes  *resumes.Service
	Postings *postings.Service
	LLM      llm.Client
}

// GenerateStandard critiques a resume on its own. The stored matching rate is
// always 0 regardless of what the model returns.
func (s *Service) GenerateStandard(ctx context.Context, userID, resumeID int64) (Feedback, error) {
	projection, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return Feedback{}, err
	}

	critique, err := s.critique(ctx, projection, nil)
	if err != nil {
		return Feedback{}, err
	}
	critique.MatchingRate = 0

	id, err := s.Repo.Create(ctx, buildFeedback(userID, resumeID, nil, critique))
	if err != nil {
		return Feedback{}, fmt.Errorf("persist feedback: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// GeneratePosting critiques a resume against one of the user's job postings.
func (s *Service) GeneratePosting(ctx context.Context, userID, resumeID, postingID int64) (Feedback, error) {
	projection, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return Feedback{}, err
	}
	posting, err := s.Postings.Get(ctx, userID, postingID)
	if err != nil {
		return Feedback{}, err
	}

	critique, err := s.critique(ctx, projection, &posting)
	if err != nil {
		return Feedback{}, err
	}

	id, err := s.Repo.Create(ctx, buildFeedback(userID, resumeID, &postingID, critique))
	if err != nil {
		return Feedback{}, fmt.Errorf("persist feedback: %w", err)
	}
	return s.Get(ctx, userID, id)
}

// Get returns the feedback with contents and category labels resolved in one
// batch codes query.
func (s *Service) Get(ctx context.Context, userID, feedbackID int64) (Feedback, error) {
	fb, err := s.Repo.GetWithContents(ctx, feedbackID)
	if err != nil {
		return Feedback{}, err
	}
	if fb.UserID != userID {
		telemetry.AuthzDenied("feedback", feedbackID, userID, fb.UserID)
		return Feedback{}, ErrForbidden
	}

	if len(fb.Contents) > 0 {
		ids := make([]string, 0, len(fb.Contents))
		for _, content := range fb.Contents {
			ids = append(ids, content.Division)
		}
		labels, err := s.Codes.Labels(ctx, codes.DivisionFeedbackDivision, ids)
		if err != nil {
			return Feedback{}, fmt.Errorf("resolve category labels: %w", err)
		}
		for i := range fb.Contents {
			fb.Contents[i].DivisionLabel = labels[fb.Contents[i].Division]
		}
	}
	return fb, nil
}

// List returns the user's feedback parents, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Feedback, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a feedback the user owns.
func (s *Service) Delete(ctx context.Context, userID, feedbackID int64) error {
	fb, err := s.Repo.GetWithContents(ctx, feedbackID)
	if err != nil {
		return err
	}
	if fb.UserID != userID {
		telemetry.AuthzDenied("feedback", feedbackID, userID, fb.UserID)
		return ErrForbidden
	}
	return s.Repo.Delete(ctx, feedbackID)
}

// ApplyStandard turns standard feedback into a new resume tagged as a
// standard-feedback revision.
func (s *Service) ApplyStandard(ctx context.Context, userID, feedbackID int64) (resumes.Projection, error) {
	fb, err := s.Get(ctx, userID, feedbackID)
	if err != nil {
		return resumes.Projection{}, err
	}
	if fb.PostingID != nil {
		return resumes.Projection{}, fmt.Errorf("%w: feedback was generated against a posting", ErrInvalidInput)
	}

	payload, err := s.revise(ctx, userID, fb, nil)
	if err != nil {
		return resumes.Projection{}, err
	}
	return s.Resumes.Materialize(ctx, userID, fb.ResumeID, payload, resumes.TypeStandardRevision, nil)
}

// ApplyPosting turns posting feedback into a new resume tagged as a
// posting-feedback revision and linked to the posting.
func (s *Service) ApplyPosting(ctx context.Context, userID, feedbackID int64) (resumes.Projection, error) {
	fb, err := s.Get(ctx, userID, feedbackID)
	if err != nil {
		return resumes.Projection{}, err
	}
	if fb.PostingID == nil {
		return resumes.Projection{}, fmt.Errorf("%w: feedback was not generated against a posting", ErrInvalidInput)
	}
	posting, err := s.Postings.Get(ctx, userID, *fb.PostingID)
	if err != nil {
		return resumes.Projection{}, err
	}

	payload, err := s.revise(ctx, userID, fb, &posting)
	if err != nil {
		return resumes.Projection{}, err
	}
	return s.Resumes.Materialize(ctx, userID, fb.ResumeID, payload, resumes.TypePostingRevision, fb.PostingID)
}

// critique runs one LLM critique call and validates the result. Any failure
// along the way is a generation failure; nothing partial escapes.
func (s *Service) critique(ctx context.Context, projection resumes.Projection, posting *postings.Posting) (Critique, error) {
	resumeJSON, err := json.Marshal(projection)
	if err != nil {
		return Critique{}, fmt.Errorf("marshal projection: %w", err)
	}
	input := llm.CritiqueInput{ResumeJSON: string(resumeJSON)}
	if posting != nil {
		postingJSON, err := json.Marshal(posting)
		if err != nil {
			return Critique{}, fmt.Errorf("marshal posting: %w", err)
		}
		input.PostingJSON = string(postingJSON)
	}

	raw, err := s.LLM.GenerateCritique(ctx, input)
	if err != nil {
		telemetry.Error("feedback.generation_failed", map[string]any{
			"resume_id": projection.ID,
			"error":     err.Error(),
		})
		return Critique{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var critique Critique
	if err := json.Unmarshal(raw, &critique); err != nil {
		return Critique{}, fmt.Errorf("%w: decode critique: %v", ErrGeneration, err)
	}
	if err := critique.Validate(); err != nil {
		return Critique{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return critique, nil
}

// revise runs one LLM revision call and validates the returned payload. A
// structurally incomplete resume is a generation failure.
func (s *Service) revise(ctx context.Context, userID int64, fb Feedback, posting *postings.Posting) (resumes.CreateInput, error) {
	projection, err := s.Resumes.Get(ctx, userID, fb.ResumeID)
	if err != nil {
		return resumes.CreateInput{}, err
	}
	resumeJSON, err := json.Marshal(projection)
	if err != nil {
		return resumes.CreateInput{}, fmt.Errorf("marshal projection: %w", err)
	}
	critiqueJSON, err := json.Marshal(Critique{
		ParentContent: fb.ParentContent,
		MatchingRate:  fb.MatchingRate,
		Contents:      toCritiqueContents(fb.Contents),
	})
	if err != nil {
		return resumes.CreateInput{}, fmt.Errorf("marshal critique: %w", err)
	}

	input := llm.RevisionInput{
		ResumeJSON:   string(resumeJSON),
		CritiqueJSON: string(critiqueJSON),
	}
	if posting != nil {
		postingJSON, err := json.Marshal(posting)
		if err != nil {
			return resumes.CreateInput{}, fmt.Errorf("marshal posting: %w", err)
		}
		input.PostingJSON = string(postingJSON)
	}

	raw, err := s.LLM.GenerateRevision(ctx, input)
	if err != nil {
		telemetry.Error("feedback.revision_failed", map[string]any{
			"feedback_id": fb.ID,
			"error":       err.Error(),
		})
		return resumes.CreateInput{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var payload resumes.CreateInput
	if err := json.Unmarshal(raw, &payload); err != nil {
		return resumes.CreateInput{}, fmt.Errorf("%w: decode revision: %v", ErrGeneration, err)
	}
	if err := payload.Validate(); err != nil {
		return resumes.CreateInput{}, fmt.Errorf("%w: incomplete revision: %v", ErrGeneration, err)
	}
	return payload, nil
}

func buildFeedback(userID, resumeID int64, postingID *int64, critique Critique) Feedback {
	fb := Feedback{
		ResumeID:      resumeID,
		UserID:        userID,
		PostingID:     postingID,
		ParentContent: critique.ParentContent,
		MatchingRate:  critique.MatchingRate,
	}
	for _, item := range critique.Contents {
		fb.Contents = append(fb.Contents, Content{Division: item.Division, Result: item.Result})
	}
	return fb
}

func toCritiqueContents(contents []Content) []CritiqueContent {
	out := make([]CritiqueContent, 0, len(contents))
	for _, content := range contents {
		out = append(out, CritiqueContent{Division: content.Division, Result: content.Result})
	}
	return out
}
