package userrepo

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/slidegen/internal/domain/auth"
)

// MemoryRepository keeps accounts for the lifetime of the process. IDs are 1-based slice positions.
type MemoryRepository struct {
	mu      sync.RWMutex
	users   []auth.User
	byEmail map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]int64)}
}

func (r *MemoryRepository) Insert(_ context.Context, nu auth.NewUser) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[nu.Email]; taken {
		return auth.User{}, auth.ErrEmailExists
	}
	now := time.Now().UTC()
	user := auth.User{
		ID:           int64(len(r.users) + 1),
		Email:        nu.Email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users = append(r.users, user)
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 1 || id > int64(len(r.users)) {
		return auth.User{}, auth.ErrUserNotFound
	}
	return r.users[id-1], nil
}

var _ auth.Repository = (*MemoryRepository)(nil)
