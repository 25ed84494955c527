package core

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps schedules in process memory. It is used when no
// database is configured and in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	schedules []*Schedule
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveSchedule appends s.
func (m *MemoryStore) SaveSchedule(_ context.Context, s *Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules = append(m.schedules, s)
	return nil
}

// LatestSchedules returns the newest schedule per source.
func (m *MemoryStore) LatestSchedules(_ context.Context) ([]*Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := make(map[string]*Schedule)
	for _, s := range m.schedules {
		if cur, ok := latest[s.Source]; !ok || !s.ParsedAt.Before(cur.ParsedAt) {
			latest[s.Source] = s
		}
	}
	out := make([]*Schedule, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

// ListSchedules returns up to limit summaries, newest first.
func (m *MemoryStore) ListSchedules(_ context.Context, limit int) ([]ScheduleSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ScheduleSummary, 0, min(limit, len(m.schedules)))
	for i := len(m.schedules) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.schedules[i].Summary())
	}
	return out, nil
}
