package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPageCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryPageCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, []byte(`{"a":1}`)))
	data, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(data))

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok, "entry should expire after ttl")

	require.NoError(t, c.Set(ctx, []byte("x")))
	require.NoError(t, c.Invalidate(ctx))
	_, ok, _ = c.Get(ctx)
	assert.False(t, ok)
}

func TestNoopNeverHits(t *testing.T) {
	var c PageCache = Noop{}
	require.NoError(t, c.Set(context.Background(), []byte("x")))
	_, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
