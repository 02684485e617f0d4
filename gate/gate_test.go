package gate_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/gate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stores returns every store to run the shared tests against. The redis
// store is included when REDIS_ADDR points at a server.
func stores(t *testing.T, free int) map[string]gate.Consumer {
	t.Helper()
	out := map[string]gate.Consumer{"memory": gate.NewMemory(free)}
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return out
	}
	rdb, err := gate.Dial(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	out["redis"] = gate.NewRedis(rdb, free, gate.WithKeyPrefix("leadmagnet-test:"+uuid.NewString()+":"))
	return out
}

func TestFreeUseThenBlocked(t *testing.T) {
	for name, c := range stores(t, gate.DefaultFreeUses) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st, err := c.Status(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, gate.Status{Remaining: 1}, st)

			st, err = c.Consume(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, 0, st.Remaining)
			assert.False(t, st.Allowed())

			_, err = c.Consume(ctx, "s1")
			assert.ErrorIs(t, err, leadmagnet.ErrNoUsesLeft)

			other, err := c.Status(ctx, "s2")
			require.NoError(t, err)
			assert.True(t, other.Allowed(), "sessions are independent")
		})
	}
}

func TestPaidIsUnlimited(t *testing.T) {
	for name, c := range stores(t, 1) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := c.Consume(ctx, "buyer")
			require.NoError(t, err)
			require.NoError(t, c.MarkPaid(ctx, "buyer"))

			for range 5 {
				st, err := c.Consume(ctx, "buyer")
				require.NoError(t, err)
				assert.True(t, st.Paid)
			}
		})
	}
}

func TestEmptySession(t *testing.T) {
	c := gate.NewMemory(1)
	_, err := c.Status(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, c.MarkPaid(context.Background(), ""))
}

func TestConcurrentConsumeNeverOverspends(t *testing.T) {
	for name, c := range stores(t, 3) {
		t.Run(name, func(t *testing.T) {
			var ok atomic.Int32
			var wg sync.WaitGroup
			for range 20 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := c.Consume(context.Background(), "busy"); err == nil {
						ok.Add(1)
					}
				}()
			}
			wg.Wait()
			assert.EqualValues(t, 3, ok.Load())
		})
	}
}

func TestSpend(t *testing.T) {
	ctx := context.Background()
	c := gate.NewMemory(1)

	boom := errors.New("render failed")
	err := gate.Spend(ctx, c, "s", func() error { return boom })
	require.ErrorIs(t, err, boom)
	st, _ := c.Status(ctx, "s")
	assert.Equal(t, 1, st.Remaining, "failed generation costs nothing")

	ran := 0
	require.NoError(t, gate.Spend(ctx, c, "s", func() error { ran++; return nil }))
	err = gate.Spend(ctx, c, "s", func() error { ran++; return nil })
	assert.ErrorIs(t, err, leadmagnet.ErrNoUsesLeft)
	assert.Equal(t, 1, ran, "blocked session never renders")
}
