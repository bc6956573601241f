package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLimiter_ConfigValidation(t *testing.T) {
	store := NewMemoryStore(WithCleanupInterval(0))

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid",
			config: Config{Capacity: 10, RefillRate: 1, RefillInterval: time.Second},
		},
		{
			name:    "zero capacity",
			config:  Config{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative refill rate",
			config:  Config{Capacity: 10, RefillRate: -1, RefillInterval: time.Second},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "zero refill interval",
			config:  Config{Capacity: 10, RefillRate: 1},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLimiter(store, tt.config)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, l)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCleanupInterval(0))
	l, err := NewLimiter(store, Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Hour})
	assert.NoError(t, err)

	// Burst up to capacity.
	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "client-a")
		assert.NoError(t, err)
		assert.True(t, res.Allowed(), "request %d should pass", i+1)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
	}

	// Fourth request is denied until the next refill.
	res, err := l.Allow(ctx, "client-a")
	assert.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Greater(t, res.RetryAfter(), time.Duration(0))

	// Separate keys have separate buckets.
	res, err = l.Allow(ctx, "client-b")
	assert.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestLimiter_AllowN(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCleanupInterval(0))
	l, err := NewLimiter(store, Config{Capacity: 10, RefillRate: 1, RefillInterval: time.Hour})
	assert.NoError(t, err)

	res, err := l.AllowN(ctx, "bulk", 10)
	assert.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	res, err = l.AllowN(ctx, "bulk", 1)
	assert.NoError(t, err)
	assert.False(t, res.Allowed())

	_, err = l.AllowN(ctx, "bulk", 0)
	assert.ErrorIs(t, err, ErrInvalidTokenCount)

	_, err = l.AllowN(ctx, "bulk", -2)
	assert.ErrorIs(t, err, ErrInvalidTokenCount)
}

func TestLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCleanupInterval(0))
	l, err := NewLimiter(store, Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	assert.NoError(t, err)

	res, err := l.Allow(ctx, "client")
	assert.NoError(t, err)
	assert.True(t, res.Allowed())

	res, err = l.Allow(ctx, "client")
	assert.NoError(t, err)
	assert.False(t, res.Allowed())

	assert.NoError(t, l.Reset(ctx, "client"))

	res, err = l.Allow(ctx, "client")
	assert.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestMemoryStore_Refill(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCleanupInterval(0))
	cfg := Config{Capacity: 4, RefillRate: 2, RefillInterval: 10 * time.Millisecond}

	// Drain the bucket.
	remaining, _, err := store.ConsumeTokens(ctx, "k", 4, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Two intervals are enough to refill to capacity, extra intervals cap.
	time.Sleep(30 * time.Millisecond)

	remaining, _, err = store.ConsumeTokens(ctx, "k", 1, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestMemoryStore_RefillCapsAtCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCleanupInterval(0))
	cfg := Config{Capacity: 3, RefillRate: 10, RefillInterval: time.Millisecond}

	_, _, err := store.ConsumeTokens(ctx, "k", 1, cfg)
	assert.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	remaining, _, err := store.ConsumeTokens(ctx, "k", 1, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestMemoryStore_StaleCleanup(t *testing.T) {
	store := NewMemoryStore(
		WithCleanupInterval(5*time.Millisecond),
		WithStaleAfter(time.Nanosecond),
	)
	defer store.Close()

	ctx := context.Background()
	cfg := Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour}
	_, _, err := store.ConsumeTokens(ctx, "old", 1, cfg)
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.buckets) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	store.Close()
	store.Close()
}
