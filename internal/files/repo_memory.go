package files

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"
)

// MemoryRepo implements Repo in memory for dev and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]File
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, items: make(map[int64]File)}
}

// Create inserts a file row and returns its generated id.
func (m *MemoryRepo) Create(ctx context.Context, file File) (int64, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	file.ID = m.nextID
	m.nextID++
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	m.items[file.ID] = file
	return file.ID, nil
}

// CreateTx ignores the transaction in the memory implementation.
func (m *MemoryRepo) CreateTx(ctx context.Context, tx *sql.Tx, file File) (int64, error) {
	_ = tx
	return m.Create(ctx, file)
}

// GetByID returns a file row by id.
func (m *MemoryRepo) GetByID(ctx context.Context, fileID int64) (File, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.items[fileID]
	if !ok {
		return File{}, ErrNotFound
	}
	return file, nil
}

// Latest returns the most recent file for the attachment point.
func (m *MemoryRepo) Latest(ctx context.Context, fileableTable string, fileableID int64, purpose string) (File, error) {
	all, err := m.ListFor(ctx, fileableTable, fileableID, purpose)
	if err != nil {
		return File{}, err
	}
	if len(all) == 0 {
		return File{}, ErrNotFound
	}
	return all[0], nil
}

// ListFor returns all files for the attachment point, newest first.
func (m *MemoryRepo) ListFor(ctx context.Context, fileableTable string, fileableID int64, purpose string) ([]File, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []File
	for _, file := range m.items {
		if file.FileableTable == fileableTable && file.FileableID == fileableID && file.Purpose == purpose {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a file row.
func (m *MemoryRepo) Delete(ctx context.Context, fileID int64) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[fileID]; !ok {
		return ErrNotFound
	}
	delete(m.items, fileID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
