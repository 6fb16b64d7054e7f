package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for critique and revision generation. Both
// methods return the provider's raw JSON; callers decode and validate it
// against their own schemas.
type Client interface {
	GenerateCritique(ctx context.Context, input CritiqueInput) (json.RawMessage, error)
	GenerateRevision(ctx context.Context, input RevisionInput) (json.RawMessage, error)
}

// CritiqueInput captures the inputs for a feedback generation request.
// PostingJSON is empty for the standard critique.
type CritiqueInput struct {
	ResumeJSON  string
	PostingJSON string
}

// RevisionInput captures the inputs for a resume revision request.
// PostingJSON is empty when revising from standard feedback.
type RevisionInput struct {
	ResumeJSON   string
	CritiqueJSON string
	PostingJSON  string
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// GenerateCritique returns ErrNotImplemented.
func (PlaceholderClient) GenerateCritique(ctx context.Context, input CritiqueInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

// GenerateRevision returns ErrNotImplemented.
func (PlaceholderClient) GenerateRevision(ctx context.Context, input RevisionInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}

var _ Client = PlaceholderClient{}
