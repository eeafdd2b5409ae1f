package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "tandem-user-service/internal/domain/user"
)

func setupTestCache(t *testing.T) (UserCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t)), mr
}

func sampleUser() *domain.User {
	middle := "Decker"
	return domain.New("Matthew", &middle, "Lund", "555-555-5555", "matt@example.com")
}

func TestRedisUserCache_SetAndGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()
	u := sampleUser()

	require.NoError(t, c.Set(ctx, u))

	got, err := c.Get(ctx, u.EmailAddress)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.UserID, got.UserID)
	assert.Equal(t, u.FirstName, got.FirstName)
	require.NotNil(t, got.MiddleName)
	assert.Equal(t, *u.MiddleName, *got.MiddleName)
	assert.Equal(t, u.EmailAddress, got.EmailAddress)
}

func TestRedisUserCache_GetMiss(t *testing.T) {
	c, _ := setupTestCache(t)

	got, err := c.Get(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_SetNilUser(t *testing.T) {
	c, _ := setupTestCache(t)

	err := c.Set(context.Background(), nil)
	assert.Error(t, err)
}

func TestRedisUserCache_Delete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()
	u := sampleUser()

	require.NoError(t, c.Set(ctx, u))
	require.NoError(t, c.Delete(ctx, u.EmailAddress))

	got, err := c.Get(ctx, u.EmailAddress)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_TTLExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := NewRedisUserCache(client, time.Second, zaptest.NewLogger(t))
	ctx := context.Background()
	u := sampleUser()

	require.NoError(t, c.Set(ctx, u))

	mr.FastForward(2 * time.Second)

	got, err := c.Get(ctx, u.EmailAddress)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
