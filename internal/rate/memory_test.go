package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterWindow(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "user@acme")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "hit %d dentro del límite", i+1)
	}

	res, err := l.Allow(ctx, "user@acme")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// otra clave no comparte ventana
	res, err = l.Allow(ctx, "otro@acme")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryLimiterSweepsStaleWindows(t *testing.T) {
	l := NewMemoryLimiter(3, 20*time.Millisecond)
	ctx := context.Background()

	for _, key := range []string{"a@acme", "b@acme", "c@acme"} {
		_, err := l.Allow(ctx, key)
		require.NoError(t, err)
	}

	// dejar vencer la ventana con margen y tocar una clave nueva
	time.Sleep(60 * time.Millisecond)
	_, err := l.Allow(ctx, "d@acme")
	require.NoError(t, err)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.hits, 1, "las ventanas vencidas se barren")
	assert.Contains(t, l.hits, "d@acme")
}
