package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobseeker-backend/internal/shared/storage/object"
	"jobseeker-backend/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem. It backs dev
// environments and tests; "presigned" URLs are plain file URLs.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the reader to disk under the user's namespace with a random prefix.
func (s *Store) Save(ctx context.Context, userID int64, fileName string, r io.Reader) (string, int64, string, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, "", fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}

	storageUserKey := util.HashUserKey(userID)
	finalName := fmt.Sprintf("%s_%s", randomID(), sanitizedName)

	dirPath := filepath.Join(s.baseDir, storageUserKey)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", 0, "", fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(dirPath, finalName)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return "", 0, "", fmt.Errorf("read sniff: %w", readErr)
	}

	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			return "", 0, "", fmt.Errorf("write sniff: %w", err)
		}
		size += int64(n)
	}

	copied, err := io.Copy(f, r)
	if err != nil {
		return "", 0, "", fmt.Errorf("write file: %w", err)
	}
	size += copied

	storageKey := storageUserKey + "/" + finalName
	return storageKey, size, mimeType, nil
}

// Open returns the stored file for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", storageKey, err)
	}
	return f, nil
}

// Copy duplicates the file under a fresh key in the same namespace.
func (s *Store) Copy(ctx context.Context, storageKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := s.resolve(storageKey)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(storageKey)
	base := filepath.Base(storageKey)
	newKey := dir + "/" + fmt.Sprintf("%s_%s", randomID(), base)

	dst, err := s.resolve(newKey)
	if err != nil {
		return "", err
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open source object %s: %w", storageKey, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create copy: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("copy object: %w", err)
	}
	return newKey, nil
}

// Delete removes the file. A missing key is treated as already deleted.
func (s *Store) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %s: %w", storageKey, err)
	}
	return nil
}

// PresignGet returns a file URL; the TTL is meaningless locally and ignored.
func (s *Store) PresignGet(ctx context.Context, storageKey string, _ time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(fullPath); err != nil {
		return "", fmt.Errorf("stat object %s: %w", storageKey, err)
	}
	abs, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func (s *Store) resolve(storageKey string) (string, error) {
	cleaned := filepath.Clean(strings.TrimLeft(storageKey, "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

var _ object.ObjectStore = (*Store)(nil)
