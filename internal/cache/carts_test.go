package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCartDocuments(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	docs := NewRedisCartDocuments(client, time.Hour)
	ctx := context.Background()

	_, ok, err := docs.Load(ctx, "abc:pilates-cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, docs.Save(ctx, "abc:pilates-cart", `{"items":[]}`))

	doc, ok, err := docs.Load(ctx, "abc:pilates-cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"items":[]}`, doc)
	assert.Equal(t, time.Hour, mr.TTL(cartKey("abc:pilates-cart")))

	mr.FastForward(2 * time.Hour)
	_, ok, err = docs.Load(ctx, "abc:pilates-cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCartDocuments_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	docs := NewRedisCartDocuments(client, 0)
	assert.Error(t, docs.Save(context.Background(), "abc", "{}"))

	_, _, err := docs.Load(context.Background(), "abc")
	assert.Error(t, err)
}

func TestMemoryCartDocuments_Expiry(t *testing.T) {
	docs := NewMemoryCartDocuments(time.Hour)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	docs.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, "a", "doc-a"))
	doc, ok, err := docs.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "doc-a", doc)

	now = now.Add(2 * time.Hour)
	_, ok, _ = docs.Load(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, docs.Save(ctx, "b", "doc-b"))
	now = now.Add(2 * time.Hour)
	require.NoError(t, docs.Save(ctx, "c", "doc-c"))
	assert.Equal(t, 1, docs.Len())
}
