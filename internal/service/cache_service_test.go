package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCachedStoresAndServesValue(t *testing.T) {
	cache := NewCacheService(&stubCacheRepo{}, nil, 0, zap.NewNop(), true)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, hit, err := cached(context.Background(), cache, "k", 0, load)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := cached(context.Background(), cache, "k", 0, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCachedTreatsBrokenCacheAsMiss(t *testing.T) {
	cache := NewCacheService(&stubCacheRepo{err: errors.New("redis down")}, nil, 0, zap.NewNop(), true)

	got, hit, err := cached(context.Background(), cache, "k", 0, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, got)
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	repo := &stubCacheRepo{}
	cache := NewCacheService(repo, nil, 0, zap.NewNop(), true)

	_, _, err := cached(context.Background(), cache, "k", 0, func(context.Context) (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	assert.Empty(t, repo.store)
}

func TestDisabledCacheAlwaysLoads(t *testing.T) {
	cache := NewCacheService(&stubCacheRepo{}, nil, 0, zap.NewNop(), false)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, _, _ = cached(context.Background(), cache, "k", 0, load)
	got, hit, err := cached(context.Background(), cache, "k", 0, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, got)
}

func TestMakeSignalCacheKey(t *testing.T) {
	assert.Equal(t, "signals:risks:class-1", makeSignalCacheKey("risks", "class-1"))
	assert.Equal(t, "signals:prediction:s1", makeSignalCacheKey("prediction", "s1", ""))
	assert.Equal(t, "signals:school:a|b:classes", makeSignalCacheKey("school", "a:b", "classes"))
}
