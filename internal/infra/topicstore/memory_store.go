package topicstore

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/slidegen/internal/domain/topics"
)

// MemoryStore keeps topic counters in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	counts   map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
	}
}

// Increment bumps the counter for canonical and remembers the first display form.
func (s *MemoryStore) Increment(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// Top returns the most frequent topics, ties broken alphabetically.
func (s *MemoryStore) Top(_ context.Context, limit int) ([]topics.Trending, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]topics.Trending, 0, len(s.counts))
	for canonical, count := range s.counts {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, topics.Trending{Topic: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Topic < items[j].Topic
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ topics.Store = (*MemoryStore)(nil)
