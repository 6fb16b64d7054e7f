package feedback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobseeker-backend/internal/applications"
	"jobseeker-backend/internal/codes"
	"jobseeker-backend/internal/feedback"
	"jobseeker-backend/internal/files"
	"jobseeker-backend/internal/llm"
	"jobseeker-backend/internal/postings"
	"jobseeker-backend/internal/resumes"
	"jobseeker-backend/internal/shared/auth"
	"jobseeker-backend/internal/shared/config"
	"jobseeker-backend/internal/shared/server"
)

type stubLLM struct {
	critiqueJSON string
	critiqueErr  error
	revisionJSON string
}

func (s *stubLLM) GenerateCritique(ctx context.Context, input llm.CritiqueInput) (json.RawMessage, error) {
	if s.critiqueErr != nil {
		return nil, s.critiqueErr
	}
	return json.RawMessage(s.critiqueJSON), nil
}

func (s *stubLLM) GenerateRevision(ctx context.Context, input llm.RevisionInput) (json.RawMessage, error) {
	return json.RawMessage(s.revisionJSON), nil
}

type testEnv struct {
	router  http.Handler
	signer  *auth.Signer
	resumes *resumes.Service
	llm     *stubLLM
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	signer, err := auth.NewSigner("test-secret")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	codeRepo := codes.NewMemoryRepo()
	fileSvc := &files.Service{
		Repo:       files.NewMemoryRepo(),
		Store:      nil,
		MaxSize:    1 << 20,
		PresignTTL: time.Minute,
	}
	resumeSvc := &resumes.Service{Repo: resumes.NewMemoryRepo(codeRepo), Files: fileSvc}
	postingSvc := &postings.Service{Repo: postings.NewMemoryRepo()}
	client := &stubLLM{}
	feedbackSvc := &feedback.Service{
		Repo:     feedback.NewMemoryRepo(),
		Codes:    codeRepo,
		Resumes:  resumeSvc,
		Postings: postingSvc,
		LLM:      client,
	}

	applicationSvc := &applications.Service{
		Repo:     applications.NewMemoryRepo(),
		Resumes:  resumeSvc,
		Postings: postingSvc,
	}

	router := server.NewRouter(server.RouterDeps{
		Config:       config.Config{Env: "test", CORSAllowOrigin: []string{"*"}},
		Signer:       signer,
		Resumes:      resumes.NewHandler(resumeSvc),
		Postings:     postings.NewHandler(postingSvc),
		Feedback:     feedback.NewHandler(feedbackSvc),
		Applications: applications.NewHandler(applicationSvc),
	})

	return &testEnv{router: router, signer: signer, resumes: resumeSvc, llm: client}
}

func (e *testEnv) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := e.signer.Sign(auth.Claims{Sub: userID})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedResume(t *testing.T, userID int64) int64 {
	t.Helper()
	p, err := e.resumes.Create(context.Background(), userID, resumes.CreateInput{
		Title:           "Backend Engineer Resume",
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Gender:          "2",
		Phone:           "010-1234-5678",
		MilitaryService: "6",
	})
	if err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	return p.ID
}

const handlerCritiqueJSON = `{
  "parent_content": "## Review",
  "matching_rate": 40,
  "feedback_contents": [
    {"feedback_division": "1", "feedback_result": "Good stack."},
    {"feedback_division": "2", "feedback_result": "Add metrics."}
  ]
}`

func TestFeedbackRoutesRequireAuth(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/feedbacks", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGenerateStandardEndpoint(t *testing.T) {
	e := newEnv(t)
	e.llm.critiqueJSON = handlerCritiqueJSON
	resumeID := e.seedResume(t, 1)

	rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/resumes/%d/feedbacks/standard", resumeID), e.token(t, 1), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var got feedback.Feedback
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.MatchingRate != 0 {
		t.Fatalf("standard feedback must return matching_rate 0, got %d", got.MatchingRate)
	}
	if len(got.Contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(got.Contents))
	}
}

func TestGenerateStandardMapsGenerationFailure(t *testing.T) {
	e := newEnv(t)
	e.llm.critiqueErr = fmt.Errorf("model unavailable")
	resumeID := e.seedResume(t, 1)

	rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/resumes/%d/feedbacks/standard", resumeID), e.token(t, 1), nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("generation_failed")) {
		t.Fatalf("expected generation_failed code, body=%s", rec.Body.String())
	}
}

func TestGetFeedbackForbiddenForOtherUser(t *testing.T) {
	e := newEnv(t)
	e.llm.critiqueJSON = handlerCritiqueJSON
	resumeID := e.seedResume(t, 1)

	rec := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/resumes/%d/feedbacks/standard", resumeID), e.token(t, 1), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created feedback.Feedback
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/feedbacks/%d", created.ID), e.token(t, 2), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGenerateStandardUnknownResumeIs404(t *testing.T) {
	e := newEnv(t)
	e.llm.critiqueJSON = handlerCritiqueJSON

	rec := e.do(t, http.MethodPost, "/api/v1/resumes/999/feedbacks/standard", e.token(t, 1), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}
