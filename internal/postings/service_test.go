package postings

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"jobseeker-backend/internal/shared/telemetry"
)

func TestServiceCreateValidatesRequiredFields(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	_, err := svc.Create(context.Background(), 1, CreateInput{Company: "Acme"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing title, got %v", err)
	}

	_, err = svc.Create(context.Background(), 1, CreateInput{Title: "Backend Engineer"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing company, got %v", err)
	}
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	created, err := svc.Create(context.Background(), 1, CreateInput{
		Title:         "  Backend Engineer  ",
		Company:       "Acme",
		Qualification: "Go, 3+ years",
		Prefer:        "Postgres experience",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected generated id")
	}
	if created.Title != "Backend Engineer" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}

	got, err := svc.Get(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Company != "Acme" {
		t.Fatalf("unexpected company %q", got.Company)
	}
}

func TestServiceGetRejectsOtherUser(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	created, err := svc.Create(context.Background(), 1, CreateInput{Title: "Backend Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), 2, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestServiceDeleteRequiresOwnership(t *testing.T) {
	svc := &Service{Repo: NewMemoryRepo()}

	created, err := svc.Create(context.Background(), 1, CreateInput{Title: "Backend Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), 2, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// The posting must survive the rejected delete.
	if _, err := svc.Get(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("posting should still exist: %v", err)
	}

	if err := svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryRepoListNewestFirstWithPaging(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(context.Background(), 1, CreateInput{Title: "Role", Company: "Acme"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), 2, CreateInput{Title: "Other", Company: "Globex"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := svc.List(context.Background(), 1, 3, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page))
	}
	if page[0].ID < page[1].ID {
		t.Fatal("expected newest-first ordering")
	}

	rest, err := svc.List(context.Background(), 1, 3, 3)
	if err != nil {
		t.Fatalf("list offset: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 remaining items, got %d", len(rest))
	}
}

func TestOwnershipDenialEmitsSecurityLog(t *testing.T) {
	var buf bytes.Buffer
	prev := telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(prev)

	svc := &Service{Repo: NewMemoryRepo()}
	created, err := svc.Create(context.Background(), 1, CreateInput{Title: "Backend Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), 2, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "security.authz_denied") {
		t.Fatalf("expected security.authz_denied event, got %q", logged)
	}
	if !strings.Contains(logged, `"resource":"posting"`) {
		t.Fatalf("expected posting resource in event, got %q", logged)
	}
	if !strings.Contains(logged, `"security":true`) {
		t.Fatalf("expected security tag in event, got %q", logged)
	}
}
