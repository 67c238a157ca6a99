package layout

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps layouts in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]*Layout
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]*Layout)}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Save(ctx context.Context, l *Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.layouts[l.Metadata.ID] = l.Clone()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	l, ok := s.layouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	metas := make([]Metadata, 0, len(s.layouts))
	for _, l := range s.layouts {
		metas = append(metas, l.Clone().Metadata)
	}
	sortNewestFirst(metas)
	return metas, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.layouts[id]; !ok {
		return ErrNotFound
	}
	delete(s.layouts, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, l := range s.layouts {
		if expired(l.Metadata, cutoff) {
			delete(s.layouts, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)
