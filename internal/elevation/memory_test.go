package elevation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, err := s.Get(ctx, Key(42))
	require.NoError(t, err)
	assert.False(t, ok, "unset key must read as false")

	require.NoError(t, s.Set(ctx, Key(42), 30*time.Minute))
	ok, err = s.Get(ctx, Key(42))
	require.NoError(t, err)
	assert.True(t, ok)

	// Other users are unaffected.
	ok, err = s.Get(ctx, Key(43))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreReadTimeExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, Key(1), 30*time.Minute))

	now = now.Add(29 * time.Minute)
	ok, err := s.Get(ctx, Key(1))
	require.NoError(t, err)
	assert.True(t, ok, "flag must hold until the TTL elapses")

	// Past the deadline the key must never read as true, even though
	// no sweeper has run.
	now = now.Add(2 * time.Minute)
	ok, err = s.Get(ctx, Key(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, Key(9), time.Hour))
	require.NoError(t, s.Delete(ctx, Key(9)))
	ok, err := s.Get(ctx, Key(9))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyFormat(t *testing.T) {
	assert.Equal(t, "otp_good_17", Key(17))
}
