package historyrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/slidegen/internal/domain/history"
)

// MemoryRepository keeps history entries in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []history.Entry
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Insert assigns an id and stores the entry.
func (r *MemoryRepository) Insert(_ context.Context, entry history.Entry) (history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, entry)
	return entry, nil
}

// ListByUser returns the user's entries, newest first.
func (r *MemoryRepository) ListByUser(_ context.Context, userID int64, limit int) ([]history.Entry, error) {
	r.mu.RLock()
	out := make([]history.Entry, 0)
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ history.Repository = (*MemoryRepository)(nil)
