package feedback

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
	items  map[int64]Feedback
}

// NewMemoryRepo creates an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, items: make(map[int64]Feedback)}
}

// Create inserts the feedback with its contents.
func (m *MemoryRepo) Create(ctx context.Context, fb Feedback) (int64, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	fb.ID = m.nextID
	m.nextID++
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	contents := make([]Content, len(fb.Contents))
	copy(contents, fb.Contents)
	for i := range contents {
		contents[i].ID = int64(i + 1)
		contents[i].FeedbackID = fb.ID
	}
	fb.Contents = contents
	m.items[fb.ID] = fb
	return fb.ID, nil
}

// GetWithContents returns the feedback with its content rows.
func (m *MemoryRepo) GetWithContents(ctx context.Context, feedbackID int64) (Feedback, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	fb, ok := m.items[feedbackID]
	if !ok {
		return Feedback{}, ErrNotFound
	}
	contents := make([]Content, len(fb.Contents))
	copy(contents, fb.Contents)
	fb.Contents = contents
	return fb, nil
}

// ListByUser returns the user's feedback parents, newest first.
func (m *MemoryRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Feedback, error) {
	_ = ctx
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []Feedback
	for _, fb := range m.items {
		if fb.UserID == userID {
			fb.Contents = nil
			all = append(all, fb)
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

// Delete removes the feedback with its contents.
func (m *MemoryRepo) Delete(ctx context.Context, feedbackID int64) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[feedbackID]; !ok {
		return ErrNotFound
	}
	delete(m.items, feedbackID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
