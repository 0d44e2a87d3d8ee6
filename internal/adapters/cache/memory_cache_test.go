package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func entry(signature string, ttl time.Duration) *core.CacheEntry {
	return &core.CacheEntry{
		Signature:  signature,
		Score:      42,
		Verdict:    core.VerdictProceedWithCaution,
		Mode:       core.ModeText,
		ResultJSON: `{"score":42}`,
		LastSeen:   time.Now(),
		ExpiresAt:  time.Now().Add(ttl),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, entry("sig-1", time.Hour)))

	got, err := c.Get(ctx, "sig-1")
	require.NoError(t, err)
	assert.Equal(t, 42, got.Score)
	assert.Equal(t, core.VerdictProceedWithCaution, got.Verdict)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheExpiredEntryIsAMiss(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, entry("sig-2", -time.Minute)))

	_, err := c.Get(ctx, "sig-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, entry("sig-3", time.Hour)))
	require.NoError(t, c.Delete(ctx, "sig-3"))

	_, err := c.Get(ctx, "sig-3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheCleanupRemovesExpired(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, entry("live", time.Hour)))
	require.NoError(t, c.Set(ctx, entry("dead", -time.Minute)))

	require.NoError(t, c.Cleanup(ctx))

	_, err := c.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = c.Get(ctx, "dead")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	first := entry("sig-4", time.Hour)
	require.NoError(t, c.Set(ctx, first))

	second := entry("sig-4", time.Hour)
	second.Score = 90
	require.NoError(t, c.Set(ctx, second))

	got, err := c.Get(ctx, "sig-4")
	require.NoError(t, err)
	assert.Equal(t, 90, got.Score)
}
