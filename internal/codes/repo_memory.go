package codes

import (
	"context"
	"sync"
)

// MemoryRepo implements Repo in memory for dev and tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	labels map[string]map[string]string // division -> detail_id -> label
}

// NewMemoryRepo creates a MemoryRepo pre-seeded with the standard divisions.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		labels: map[string]map[string]string{
			DivisionGender: {
				"1": "Male",
				"2": "Female",
			},
			DivisionResumeType: {
				"1": "Standard resume",
				"2": "Posting feedback resume",
				"3": "Standard feedback resume",
			},
			DivisionMilitary: {
				"1": "Exempted",
				"2": "Completed",
				"3": "Not completed",
				"4": "Public service",
				"5": "Special exemption",
				"6": "Not applicable",
			},
			DivisionDegree: {
				"1": "High school diploma",
				"2": "Associate degree",
				"3": "Bachelor's degree",
				"4": "Master's degree",
				"5": "Doctorate",
			},
			DivisionFeedbackDivision: {
				"1": "Well done",
				"2": "Required fix",
				"3": "Suggested improvement",
				"4": "Additional recommendation",
			},
		},
	}
}

// Label resolves a single (division, detail_id) pair.
func (m *MemoryRepo) Label(ctx context.Context, division, detailID string) (string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	if label, ok := m.labels[division][detailID]; ok {
		return label, nil
	}
	return "", ErrNotFound
}

// Labels resolves a batch of detail ids within one division.
func (m *MemoryRepo) Labels(ctx context.Context, division string, detailIDs []string) (map[string]string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(detailIDs))
	for _, id := range detailIDs {
		if label, ok := m.labels[division][id]; ok {
			out[id] = label
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
