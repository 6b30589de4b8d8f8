package jobs

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps jobs in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job), now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok || j.IsExpired(s.now()) {
		return nil, nil
	}
	return &j, nil
}

func (s *MemoryStore) Set(ctx context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.IsExpired(now) {
			continue
		}
		out = append(out, &j)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, j := range s.jobs {
		if j.IsExpired(now) {
			delete(s.jobs, id)
		}
	}
	return nil
}

func sortNewestFirst(jobs []*Job) {
	slices.SortFunc(jobs, func(a, b *Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

var _ Store = (*MemoryStore)(nil)
