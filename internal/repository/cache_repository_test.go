package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "edu", nil)
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "signals:risks:c1"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryNamespacesKeys(t *testing.T) {
	assert.Equal(t, "edu:signals:risks:c1", NewCacheRepository(nil, "edu", nil).key("signals:risks:c1"))
	assert.Equal(t, "signals:risks:c1", NewCacheRepository(nil, "", nil).key("signals:risks:c1"))
}

func TestCacheRepositorySurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	repo := NewCacheRepository(client, "edu", nil)
	defer repo.Close()

	var dest string
	err := repo.Get(context.Background(), "k", &dest)
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Error(t, repo.Ping(context.Background()))
	assert.Error(t, repo.Delete(context.Background(), "signals:risks:*"))
}

func TestCacheRepositoryDeleteWithoutKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	repo := NewCacheRepository(client, "edu", nil)
	defer repo.Close()

	assert.NoError(t, repo.Delete(context.Background()))
}
