package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozen(s *MemoryStore) *time.Time {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return &now
}

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	frozen(s)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "ref", "42", time.Minute))
	v, err := s.Get(ctx, "ref")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := frozen(s)

	require.NoError(t, s.Set(ctx, "ref", "42", 15*time.Minute))

	*now = now.Add(14 * time.Minute)
	_, err := s.Get(ctx, "ref")
	assert.NoError(t, err)

	*now = now.Add(time.Minute) // exactly at the deadline counts as expired
	_, err = s.Get(ctx, "ref")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoreIncr(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := frozen(s)

	n, err := s.Incr(ctx, "att", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Incr(ctx, "att", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// The counter resets once its TTL elapses.
	*now = now.Add(2 * time.Hour)
	n, err = s.Incr(ctx, "att", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	frozen(s)

	require.NoError(t, s.Set(ctx, "ref", "42", time.Minute))
	require.NoError(t, s.Delete(ctx, "ref"))
	_, err := s.Get(ctx, "ref")
	assert.ErrorIs(t, err, ErrMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, s.Delete(ctx, "ref"))
}
