package task

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps tasks in a map. It is safe for concurrent use and
// stores copies, so callers may keep mutating the tasks they pass in.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]*Task), now: time.Now}
}

func (s *MemoryStore) Create(ctx context.Context, t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(t, s.now())
	if _, ok := s.tasks[t.ID]; ok {
		return fmt.Errorf("%s: %w", t.ID, ErrExists)
	}
	s.tasks[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, t *Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	s.tasks[t.ID] = t.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	out := s.summaries()
	sortNewest(out)
	return out, nil
}

func (s *MemoryStore) Recent(ctx context.Context, n int) ([]Summary, error) {
	return recent(s.summaries(), n), nil
}

func (s *MemoryStore) summaries() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Summary())
	}
	return out
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
