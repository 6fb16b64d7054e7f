package postings

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo implements Repo in memory for dev and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]Posting
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, items: make(map[int64]Posting)}
}

// Create inserts a posting and returns its generated id.
func (m *MemoryRepo) Create(ctx context.Context, posting Posting) (int64, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	posting.ID = m.nextID
	m.nextID++
	if posting.CreatedAt.IsZero() {
		posting.CreatedAt = time.Now().UTC()
	}
	m.items[posting.ID] = posting
	return posting.ID, nil
}

// GetByID returns a posting by id.
func (m *MemoryRepo) GetByID(ctx context.Context, postingID int64) (Posting, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	posting, ok := m.items[postingID]
	if !ok {
		return Posting{}, ErrNotFound
	}
	return posting, nil
}

// ListByUser lists postings ordered newest-first.
func (m *MemoryRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Posting, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []Posting
	for _, posting := range m.items {
		if posting.UserID == userID {
			all = append(all, posting)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Delete removes a posting.
func (m *MemoryRepo) Delete(ctx context.Context, postingID int64) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[postingID]; !ok {
		return ErrNotFound
	}
	delete(m.items, postingID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
