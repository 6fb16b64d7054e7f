package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"
)

// fakeStore records saved and deleted keys without touching real storage.
type fakeStore struct {
	nextID   int
	mimeType string
	saved    []string
	deleted  []string
	saveErr  error
}

func (f *fakeStore) Save(ctx context.Context, userID int64, fileName string, r io.Reader) (string, int64, string, error) {
	if f.saveErr != nil {
		return "", 0, "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	f.nextID++
	key := fmt.Sprintf("u/%d/obj-%d", userID, f.nextID)
	f.saved = append(f.saved, key)
	return key, int64(len(data)), f.mimeType, nil
}

func (f *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (f *fakeStore) Copy(ctx context.Context, key string) (string, error) {
	f.nextID++
	newKey := fmt.Sprintf("%s-copy-%d", key, f.nextID)
	f.saved = append(f.saved, newKey)
	return newKey, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func newTestService(store *fakeStore) *Service {
	return &Service{
		Repo:       NewMemoryRepo(),
		Store:      store,
		MaxSize:    1024,
		PresignTTL: time.Minute,
	}
}

func TestUploadResumeImageStoresRecord(t *testing.T) {
	store := &fakeStore{mimeType: "image/png"}
	svc := newTestService(store)

	file, err := svc.UploadResumeImage(context.Background(), 1, 10, "me.png", bytes.NewReader([]byte("png-bytes")), 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if file.ID == 0 {
		t.Fatal("expected generated file id")
	}
	if file.FileableTable != TableResumes || file.Purpose != PurposeResumeImage {
		t.Fatalf("unexpected attachment: %s/%s", file.FileableTable, file.Purpose)
	}

	active, err := svc.ActiveImage(context.Background(), 10)
	if err != nil {
		t.Fatalf("active image: %v", err)
	}
	if active.ID != file.ID {
		t.Fatalf("expected active image %d, got %d", file.ID, active.ID)
	}
}

func TestUploadResumeImageReplacesOld(t *testing.T) {
	store := &fakeStore{mimeType: "image/jpeg"}
	svc := newTestService(store)

	first, err := svc.UploadResumeImage(context.Background(), 1, 10, "a.jpg", bytes.NewReader([]byte("one")), 3)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := svc.UploadResumeImage(context.Background(), 1, 10, "b.jpg", bytes.NewReader([]byte("two")), 3)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	active, err := svc.ActiveImage(context.Background(), 10)
	if err != nil {
		t.Fatalf("active image: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected newest image %d, got %d", second.ID, active.ID)
	}

	if _, err := svc.Repo.GetByID(context.Background(), first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old row gone, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != first.FileKey {
		t.Fatalf("expected old object %q deleted, got %v", first.FileKey, store.deleted)
	}
}

func TestUploadResumeImageRejectsBadType(t *testing.T) {
	store := &fakeStore{mimeType: "application/pdf"}
	svc := newTestService(store)

	_, err := svc.UploadResumeImage(context.Background(), 1, 10, "doc.pdf", bytes.NewReader([]byte("%PDF")), 4)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	// The rejected object must not linger in storage.
	if len(store.deleted) != 1 {
		t.Fatalf("expected rejected object deleted, got %v", store.deleted)
	}
	if _, err := svc.ActiveImage(context.Background(), 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no image record, got %v", err)
	}
}

func TestUploadResumeImageRejectsOversize(t *testing.T) {
	store := &fakeStore{mimeType: "image/png"}
	svc := newTestService(store)
	svc.MaxSize = 4

	_, err := svc.UploadResumeImage(context.Background(), 1, 10, "big.png", bytes.NewReader([]byte("too large")), 9)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImageURLEmptyWhenNoImage(t *testing.T) {
	store := &fakeStore{mimeType: "image/png"}
	svc := newTestService(store)

	url, err := svc.ImageURL(context.Background(), 10)
	if err != nil {
		t.Fatalf("image url: %v", err)
	}
	if url != "" {
		t.Fatalf("expected empty url, got %q", url)
	}
}
