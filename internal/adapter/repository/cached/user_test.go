package cached

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tandem-user-service/internal/adapter/cache"
	"tandem-user-service/internal/adapter/db/memory"
	domain "tandem-user-service/internal/domain/user"
	"tandem-user-service/internal/usecase/user"
)

func setupCachedRepo(t *testing.T) (user.Repository, user.Repository, cache.UserCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := zaptest.NewLogger(t)
	dbRepo := memory.NewUserRepoMemory()
	userCache := cache.NewRedisUserCache(client, 5*time.Minute, log)

	return NewCachedUserRepository(dbRepo, userCache, log), dbRepo, userCache
}

func newUser(email string) *domain.User {
	return domain.New("Matthew", nil, "Lund", "555-555-5555", email)
}

func TestCachedRepository_AddWarmsCache(t *testing.T) {
	repo, _, userCache := setupCachedRepo(t)
	ctx := context.Background()

	stored, err := repo.Add(ctx, newUser("matt@example.com"))
	require.NoError(t, err)

	cached, err := userCache.Get(ctx, "matt@example.com")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, stored.UserID, cached.UserID)
}

func TestCachedRepository_GetByEmailPopulatesCacheOnMiss(t *testing.T) {
	repo, dbRepo, userCache := setupCachedRepo(t)
	ctx := context.Background()

	// Seed the database directly so the cache starts cold
	_, err := dbRepo.Add(ctx, newUser("matt@example.com"))
	require.NoError(t, err)

	cached, err := userCache.Get(ctx, "matt@example.com")
	require.NoError(t, err)
	require.Nil(t, cached)

	got, err := repo.GetByEmail(ctx, "matt@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	cached, err = userCache.Get(ctx, "matt@example.com")
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

func TestCachedRepository_GetByEmailServesFromCache(t *testing.T) {
	repo, dbRepo, userCache := setupCachedRepo(t)
	ctx := context.Background()

	stored, err := dbRepo.Add(ctx, newUser("matt@example.com"))
	require.NoError(t, err)
	require.NoError(t, userCache.Set(ctx, stored))

	got, err := repo.GetByEmail(ctx, "matt@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stored.UserID, got.UserID)
}

func TestCachedRepository_GetByEmailAbsentNotCached(t *testing.T) {
	repo, _, userCache := setupCachedRepo(t)
	ctx := context.Background()

	got, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)

	// Absence is not cached, so a later create is immediately visible
	cached, err := userCache.Get(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, cached)

	_, err = repo.Add(ctx, newUser("nobody@example.com"))
	require.NoError(t, err)

	got, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCachedRepository_UpdateRefreshesCache(t *testing.T) {
	repo, _, userCache := setupCachedRepo(t)
	ctx := context.Background()

	stored, err := repo.Add(ctx, newUser("matt@example.com"))
	require.NoError(t, err)

	stored.Update("Updated", nil, "Name", "555-999-9999")
	_, err = repo.Update(ctx, stored)
	require.NoError(t, err)

	cached, err := userCache.Get(ctx, "matt@example.com")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Updated", cached.FirstName)
	assert.Equal(t, "555-999-9999", cached.PhoneNumber)
}

func TestCachedRepository_ExistsByEmail(t *testing.T) {
	repo, _, _ := setupCachedRepo(t)
	ctx := context.Background()

	exists, err := repo.ExistsByEmail(ctx, "matt@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Add(ctx, newUser("matt@example.com"))
	require.NoError(t, err)

	exists, err = repo.ExistsByEmail(ctx, "matt@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	// Blank emails, whitespace-only included, report absent without
	// consulting the backends
	for _, email := range []string{"", "   "} {
		exists, err = repo.ExistsByEmail(ctx, email)
		require.NoError(t, err)
		assert.False(t, exists)
	}
}

func TestCachedRepository_NilCacheDelegates(t *testing.T) {
	log := zaptest.NewLogger(t)
	dbRepo := memory.NewUserRepoMemory()
	repo := NewCachedUserRepository(dbRepo, nil, log)
	ctx := context.Background()

	stored, err := repo.Add(ctx, newUser("matt@example.com"))
	require.NoError(t, err)

	got, err := repo.GetByEmail(ctx, "matt@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stored.UserID, got.UserID)
}
