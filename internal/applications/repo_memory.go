package applications

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
	items  map[int64]Application
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, items: make(map[int64]Application)}
}

// Create inserts an application and returns its generated id.
func (m *MemoryRepo) Create(ctx context.Context, application Application) (int64, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	application.ID = m.nextID
	m.nextID++
	if application.CreatedAt.IsZero() {
		application.CreatedAt = time.Now().UTC()
	}
	m.items[application.ID] = application
	return application.ID, nil
}

// GetByID returns an application by id.
func (m *MemoryRepo) GetByID(ctx context.Context, applicationID int64) (Application, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	application, ok := m.items[applicationID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return application, nil
}

// ListByUser lists applications ordered newest-first.
func (m *MemoryRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Application, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []Application
	for _, application := range m.items {
		if application.UserID == userID {
			all = append(all, application)
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

// ExistsForPosting reports whether the user already applied to the posting.
func (m *MemoryRepo) ExistsForPosting(ctx context.Context, userID, postingID int64) (bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, application := range m.items {
		if application.UserID == userID && application.PostingID == postingID {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes an application.
func (m *MemoryRepo) Delete(ctx context.Context, applicationID int64) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[applicationID]; !ok {
		return ErrNotFound
	}
	delete(m.items, applicationID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
