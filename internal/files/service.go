package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"jobseeker-backend/internal/shared/storage/object"
	"jobseeker-backend/internal/shared/telemetry"
)

// Image MIME types accepted for resume profile images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Service manages file records and the objects behind them.
type Service struct {
	Repo       Repo
	Store      object.ObjectStore
	MaxSize    int64
	PresignTTL time.Duration
}

// UploadResumeImage stores an image object for a resume and records it. When a
// previous image exists, the new row is written before the old row is removed
// and the old object is deleted last, so a crash never leaves the resume
// without an image record.
func (s *Service) UploadResumeImage(ctx context.Context, userID, resumeID int64, fileName string, r io.Reader, declaredSize int64) (File, error) {
	if s.MaxSize > 0 && declaredSize > s.MaxSize {
		return File{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.MaxSize)
	}

	limited := r
	if s.MaxSize > 0 {
		limited = io.LimitReader(r, s.MaxSize+1)
	}

	key, size, mimeType, err := s.Store.Save(ctx, userID, fileName, limited)
	if err != nil {
		return File{}, fmt.Errorf("save image object: %w", err)
	}
	if s.MaxSize > 0 && size > s.MaxSize {
		_ = s.Store.Delete(ctx, key)
		return File{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.MaxSize)
	}
	if !allowedImageTypes[mimeType] {
		_ = s.Store.Delete(ctx, key)
		return File{}, fmt.Errorf("%w: unsupported image type %s", ErrInvalidInput, mimeType)
	}

	previous, prevErr := s.Repo.Latest(ctx, TableResumes, resumeID, PurposeResumeImage)

	file := File{
		UserID:        userID,
		FileableID:    resumeID,
		FileableTable: TableResumes,
		Purpose:       PurposeResumeImage,
		OrgFileName:   fileName,
		ModFileName:   keyBase(key),
		FileType:      mimeType,
		FileKey:       key,
	}
	id, err := s.Repo.Create(ctx, file)
	if err != nil {
		_ = s.Store.Delete(ctx, key)
		return File{}, fmt.Errorf("record image: %w", err)
	}
	file.ID = id

	// Old row and object go away only after the new record is durable.
	if prevErr == nil {
		if err := s.Repo.Delete(ctx, previous.ID); err != nil {
			telemetry.Error("files.replace_cleanup_failed", map[string]any{
				"file_id": previous.ID,
				"error":   err.Error(),
			})
		} else if err := s.Store.Delete(ctx, previous.FileKey); err != nil {
			telemetry.Error("files.object_delete_failed", map[string]any{
				"file_key": previous.FileKey,
				"error":    err.Error(),
			})
		}
	}

	return file, nil
}

// CloneActiveImage copies a resume's current image object under a fresh key
// and returns an unattached file row template pointing at it. The caller is
// expected to persist the row (usually inside its own transaction) and to
// delete the copied object if that fails. Returns ErrNotFound when the resume
// has no image.
func (s *Service) CloneActiveImage(ctx context.Context, resumeID int64) (File, error) {
	src, err := s.Repo.Latest(ctx, TableResumes, resumeID, PurposeResumeImage)
	if err != nil {
		return File{}, err
	}
	newKey, err := s.Store.Copy(ctx, src.FileKey)
	if err != nil {
		return File{}, fmt.Errorf("copy image object: %w", err)
	}
	return File{
		UserID:        src.UserID,
		FileableTable: TableResumes,
		Purpose:       PurposeResumeImage,
		OrgFileName:   src.OrgFileName,
		ModFileName:   keyBase(newKey),
		FileType:      src.FileType,
		FileKey:       newKey,
	}, nil
}

// DeleteObject removes a stored object without touching file rows. Used to
// clean up copies whose owning transaction rolled back.
func (s *Service) DeleteObject(ctx context.Context, storageKey string) error {
	return s.Store.Delete(ctx, storageKey)
}

// ActiveImage returns the current image record for a resume.
func (s *Service) ActiveImage(ctx context.Context, resumeID int64) (File, error) {
	return s.Repo.Latest(ctx, TableResumes, resumeID, PurposeResumeImage)
}

// ImageURL returns a presigned URL for a resume's current image, or "" when
// the resume has no image.
func (s *Service) ImageURL(ctx context.Context, resumeID int64) (string, error) {
	file, err := s.Repo.Latest(ctx, TableResumes, resumeID, PurposeResumeImage)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return s.Store.PresignGet(ctx, file.FileKey, s.PresignTTL)
}

// PresignKey returns a presigned URL for an arbitrary stored key.
func (s *Service) PresignKey(ctx context.Context, storageKey string) (string, error) {
	if storageKey == "" {
		return "", nil
	}
	return s.Store.PresignGet(ctx, storageKey, s.PresignTTL)
}

func keyBase(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '/' {
			return key[i+1:]
		}
	}
	return key
}
