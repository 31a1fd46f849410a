package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestInMemoryBucketStore_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewInMemoryBucketStore(WithClock(clock.Now))

	for i := range 3 {
		res, err := store.Allow(ctx, "auth:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
		clock.Advance(10 * time.Second)
	}

	res, err := store.Allow(ctx, "auth:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30*time.Second, res.RetryAfter, "the oldest request leaves the window in 30s")

	other, err := store.Allow(ctx, "auth:10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")

	clock.Advance(31 * time.Second)
	res, err = store.Allow(ctx, "auth:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestInMemoryBucketStore_DeniedRequestsDoNotCount(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewInMemoryBucketStore(WithClock(clock.Now))

	_, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	for range 5 {
		res, err := store.Allow(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
	}

	clock.Advance(time.Minute + time.Millisecond)
	res, err := store.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestInMemoryBucketStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewInMemoryBucketStore(WithClock(clock.Now))

	_, err := store.Allow(ctx, "a", 5, time.Minute)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	_, err = store.Allow(ctx, "b", 5, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	clock.Advance(45 * time.Second)
	store.Sweep()
	assert.Equal(t, 1, store.Len(), "only b still has requests in its window")
}
