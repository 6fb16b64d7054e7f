package openai

import (
	"strings"
	"testing"

	"jobseeker-backend/internal/llm"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gpt-4o"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("sk-test", ""); err == nil {
		t.Fatal("expected error for missing model")
	}
	if _, err := NewClient("sk-test", "gpt-4o"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCritiqueUserPromptIncludesPostingOnlyWhenGiven(t *testing.T) {
	standard := critiqueUserPrompt(llm.CritiqueInput{ResumeJSON: `{"title":"r"}`})
	if strings.Contains(standard, "Job posting") {
		t.Fatal("standard prompt must not mention a posting")
	}

	posting := critiqueUserPrompt(llm.CritiqueInput{ResumeJSON: `{"title":"r"}`, PostingJSON: `{"company":"Acme"}`})
	if !strings.Contains(posting, "Job posting") || !strings.Contains(posting, "Acme") {
		t.Fatalf("posting prompt missing posting section: %q", posting)
	}
}

func TestRevisionUserPromptCarriesFeedback(t *testing.T) {
	got := revisionUserPrompt(llm.RevisionInput{
		ResumeJSON:   `{"title":"r"}`,
		CritiqueJSON: `{"parent_content":"fix the intro"}`,
	})
	if !strings.Contains(got, "Recruiter feedback") || !strings.Contains(got, "fix the intro") {
		t.Fatalf("revision prompt missing feedback section: %q", got)
	}
}
