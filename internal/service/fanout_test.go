package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func identity(s string) string { return s }

func TestFanOutKeepsInputOrder(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	policy := fanOutPolicy{workers: 3, logger: zap.NewNop()}

	out, failures := fanOut(context.Background(), policy, scopeStudent, keys, identity,
		func(_ context.Context, k string) (string, error) {
			if k == "a" {
				time.Sleep(10 * time.Millisecond)
			}
			return k + k, nil
		})

	require.Empty(t, failures)
	require.Len(t, out, len(keys))
	for i, item := range out {
		assert.Equal(t, keys[i], item.Key)
		assert.Equal(t, keys[i]+keys[i], item.Value)
	}
}

func TestFanOutBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	keys := make([]string, 20)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	policy := fanOutPolicy{workers: 2, logger: zap.NewNop()}

	_, _ = fanOut(context.Background(), policy, scopeStudent, keys, identity,
		func(_ context.Context, _ string) (int, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return 0, nil
		})

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestFanOutAppliesPerEntityTimeout(t *testing.T) {
	policy := fanOutPolicy{workers: 2, timeout: 20 * time.Millisecond, logger: zap.NewNop()}

	out, failures := fanOut(context.Background(), policy, scopeStudent, []string{"slow", "fast"}, identity,
		func(ctx context.Context, k string) (string, error) {
			if k == "slow" {
				<-ctx.Done()
				return "", ctx.Err()
			}
			return k, nil
		})

	require.Len(t, out, 1)
	assert.Equal(t, "fast", out[0].Key)
	require.Len(t, failures, 1)
	assert.Equal(t, "slow", failures[0].EntityID)
	assert.Equal(t, context.DeadlineExceeded.Error(), failures[0].Error)
}

func TestTotalOutage(t *testing.T) {
	policy := fanOutPolicy{workers: 1}
	_, failures := fanOut(context.Background(), policy, scopeClass, []string{"a", "b"}, identity,
		func(_ context.Context, _ string) (int, error) { return 0, errors.New("down") })

	assert.True(t, totalOutage(2, failures))
	assert.False(t, totalOutage(3, failures))
	assert.False(t, totalOutage(0, nil))
}
