package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestCacheRepositoryExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	repo := NewCacheRepository(0)
	repo.now = clock.now
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Minute))

	value, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
	exists, _ := repo.Exists(ctx, "k")
	assert.True(t, exists)

	clock.t = clock.t.Add(2 * time.Minute)

	_, err = repo.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	exists, _ = repo.Exists(ctx, "k")
	assert.False(t, exists)

	repo.evictExpired()
	assert.Empty(t, repo.data)
}

func TestCacheRepositoryDefaultTTLAndDelete(t *testing.T) {
	repo := NewCacheRepository(0)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), repo.data["k"].ExpiresAt, time.Minute)

	require.NoError(t, repo.Delete(ctx, "k"))
	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheRepositorySweeper(t *testing.T) {
	repo := NewCacheRepository(10 * time.Millisecond)
	defer repo.Close()
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "short", []byte("v"), time.Millisecond))

	assert.Eventually(t, func() bool {
		repo.mutex.RLock()
		defer repo.mutex.RUnlock()
		return len(repo.data) == 0
	}, time.Second, 10*time.Millisecond)

	assert.NoError(t, repo.Close())
}
