package resumes

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"jobseeker-backend/internal/codes"
	"jobseeker-backend/internal/files"
)

// stubStore is an in-memory object store for service tests.
type stubStore struct {
	nextID   int
	mimeType string
	objects  map[string][]byte
	deleted  []string
	copyErr  error
}

func newStubStore(mimeType string) *stubStore {
	return &stubStore{mimeType: mimeType, objects: map[string][]byte{}}
}

func (s *stubStore) Save(ctx context.Context, userID int64, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	s.nextID++
	key := fmt.Sprintf("u/%d/obj-%d", userID, s.nextID)
	s.objects[key] = data
	return key, int64(len(data)), s.mimeType, nil
}

func (s *stubStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("missing object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubStore) Copy(ctx context.Context, key string) (string, error) {
	if s.copyErr != nil {
		return "", s.copyErr
	}
	data, ok := s.objects[key]
	if !ok {
		return "", errors.New("missing source object")
	}
	s.nextID++
	newKey := fmt.Sprintf("%s-copy-%d", key, s.nextID)
	s.objects[newKey] = data
	return newKey, nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func newTestService() (*Service, *files.Service, *stubStore) {
	store := newStubStore("image/png")
	fileRepo := files.NewMemoryRepo()
	fileSvc := &files.Service{Repo: fileRepo, Store: store, MaxSize: 1 << 20, PresignTTL: time.Minute}

	repo := NewMemoryRepo(codes.NewMemoryRepo())
	repo.ImageKey = func(ctx context.Context, resumeID int64) (string, error) {
		file, err := fileRepo.Latest(ctx, files.TableResumes, resumeID, files.PurposeResumeImage)
		if err != nil {
			return "", err
		}
		return file.FileKey, nil
	}

	return &Service{Repo: repo, Files: fileSvc}, fileSvc, store
}

func validInput() CreateInput {
	start := NewDate(2020, 3, 1)
	return CreateInput{
		Title:           "Backend Engineer Resume",
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Gender:          "2",
		Phone:           "010-1234-5678",
		MilitaryService: "6",
		Experiences: []Experience{{
			JobTitle:         "Engineer",
			Department:       "Platform",
			EmploymentStatus: true,
			StartDate:        start,
		}},
		Educations: []Education{{
			Organ:       "State University",
			Department:  "Computer Science",
			DegreeLevel: "3",
			StartDate:   NewDate(2014, 3, 1),
		}},
		TechnologyStacks: []TechnologyStack{{Title: "Go"}, {Title: "PostgreSQL"}},
	}
}

func TestCreateResolvesProjectionLabels(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ResumeType != TypeUserAuthored {
		t.Fatalf("expected user-authored type, got %q", p.ResumeType)
	}
	if p.GenderLabel != "Female" {
		t.Fatalf("unexpected gender label %q", p.GenderLabel)
	}
	if p.MilitaryServiceLabel != "Not applicable" {
		t.Fatalf("unexpected military label %q", p.MilitaryServiceLabel)
	}
	if len(p.Educations) != 1 || p.Educations[0].DegreeLabel != "Bachelor's degree" {
		t.Fatalf("expected resolved degree label, got %+v", p.Educations)
	}
	if len(p.TechnologyStacks) != 2 {
		t.Fatalf("expected 2 technology stacks, got %d", len(p.TechnologyStacks))
	}
}

func TestCreateRejectsMissingRequiredField(t *testing.T) {
	svc, _, _ := newTestService()

	in := validInput()
	in.Email = ""
	if _, err := svc.Create(context.Background(), 1, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetRejectsOtherUser(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Get(context.Background(), 2, p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateReplacesChildrenWholesale(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := validInput()
	in.Title = "Senior Backend Engineer Resume"
	in.TechnologyStacks = []TechnologyStack{{Title: "Go"}}
	in.Experiences = nil

	updated, err := svc.Update(context.Background(), 1, p.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Senior Backend Engineer Resume" {
		t.Fatalf("unexpected title %q", updated.Title)
	}
	if len(updated.TechnologyStacks) != 1 {
		t.Fatalf("expected old stacks replaced, got %d", len(updated.TechnologyStacks))
	}
	if len(updated.Experiences) != 0 {
		t.Fatalf("expected experiences cleared, got %d", len(updated.Experiences))
	}
}

func TestDeleteHidesResume(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), 1, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMaterializeCopiesImageAndTagsType(t *testing.T) {
	svc, fileSvc, _ := newTestService()

	parent, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := fileSvc.UploadResumeImage(context.Background(), 1, parent.ID, "me.png", bytes.NewReader([]byte("png-bytes")), 9); err != nil {
		t.Fatalf("upload parent image: %v", err)
	}
	parentImage, err := fileSvc.ActiveImage(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("parent image: %v", err)
	}

	payload := validInput()
	payload.Title = "Revised Backend Engineer Resume"

	revised, err := svc.Materialize(context.Background(), 1, parent.ID, payload, TypeStandardRevision, nil)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if revised.ResumeType != TypeStandardRevision {
		t.Fatalf("expected standard-revision marker, got %q", revised.ResumeType)
	}
	if revised.ID == parent.ID {
		t.Fatal("expected a new resume row")
	}

	revisedImage, err := fileSvc.ActiveImage(context.Background(), revised.ID)
	if err != nil {
		t.Fatalf("revised image: %v", err)
	}
	if revisedImage.FileKey == parentImage.FileKey {
		t.Fatal("expected the image object to be copied, not shared")
	}
	if revised.ImageURL == "" {
		t.Fatal("expected presigned image url on the projection")
	}
}

func TestMaterializeFailsWithoutParentImage(t *testing.T) {
	svc, _, _ := newTestService()

	parent, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	_, err = svc.Materialize(context.Background(), 1, parent.ID, validInput(), TypeStandardRevision, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing image, got %v", err)
	}
}

func TestMaterializeCleansUpCopyWhenPersistFails(t *testing.T) {
	svc, fileSvc, store := newTestService()

	parent, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := fileSvc.UploadResumeImage(context.Background(), 1, parent.ID, "me.png", bytes.NewReader([]byte("png-bytes")), 9); err != nil {
		t.Fatalf("upload parent image: %v", err)
	}

	// Force the attach step to fail so the copied object must be removed.
	fileRepo := fileSvc.Repo
	fileSvc.Repo = failingFileRepo{Repo: fileRepo}
	defer func() { fileSvc.Repo = fileRepo }()

	before := len(store.deleted)
	if _, err := svc.Materialize(context.Background(), 1, parent.ID, validInput(), TypeStandardRevision, nil); err == nil {
		t.Fatal("expected materialize to fail")
	}
	if len(store.deleted) != before+1 {
		t.Fatalf("expected the copied object to be deleted, deletions: %v", store.deleted)
	}
}

// failingFileRepo fails CreateTx to simulate a broken attach step.
type failingFileRepo struct {
	files.Repo
}

func (failingFileRepo) CreateTx(ctx context.Context, tx *sql.Tx, file files.File) (int64, error) {
	return 0, errors.New("boom")
}

func TestProjectionDecorationDoesNotLeakIntoRepo(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), 1, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.Get(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.Educations[0].DegreeLabel == "" {
		t.Fatal("expected degree label on projection")
	}
	first.Educations[0].Organ = "Tampered University"

	second, err := svc.Get(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if second.Educations[0].Organ != "State University" {
		t.Fatalf("projection mutation leaked into repo state: %q", second.Educations[0].Organ)
	}
}
