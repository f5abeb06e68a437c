package userrepo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/slidegen/internal/domain/auth"
)

func TestMemoryRepository_InsertAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user, err := repo.Insert(ctx, auth.NewUser{Email: "a@example.com", Name: "Ada", PasswordHash: "hash"})
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, user.CreatedAt, user.UpdatedAt)

	byEmail, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, user, byEmail)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada", byID.Name)

	for _, id := range []int64{0, -1, 42} {
		_, err = repo.FindByID(ctx, id)
		require.ErrorIs(t, err, auth.ErrUserNotFound)
	}
	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestMemoryRepository_ConcurrentDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(context.Background(), auth.NewUser{Email: "same@example.com", PasswordHash: "hash"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, auth.ErrEmailExists)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, created)
}
