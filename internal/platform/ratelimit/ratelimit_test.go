package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewMemory(Rule{Limit: 2, Window: time.Minute}, func() time.Time { return now })
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.Equal(t, want, ok, "hit %d", i)
	}

	ok, err := l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, ok, "other keys have their own bucket")

	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok, "new window resets the count")
}

func TestMemoryLimiterOff(t *testing.T) {
	l := NewMemory(Rule{}, nil)
	for i := 0; i < 100; i++ {
		ok, err := l.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	rdb, err := Connect(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedis(rdb, "test-"+uuid.NewString(), Rule{Limit: 1, Window: time.Minute}, nil)
	ok, err := l.Allow(context.Background(), "ip")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = l.Allow(context.Background(), "ip")
	require.NoError(t, err)
	require.False(t, ok)
}
