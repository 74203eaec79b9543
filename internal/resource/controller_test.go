package resource

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Loads(t *testing.T) {
	c := NewController(Config{MaxConcurrentLoads: 2})

	require.NoError(t, c.AcquireLoad(t.Context()))
	require.NoError(t, c.AcquireLoad(t.Context()))
	assert.False(t, c.TryAcquireLoad())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireLoad(ctx), context.DeadlineExceeded)

	c.ReleaseLoad()
	assert.True(t, c.TryAcquireLoad())
}

func TestController_DefaultLoads(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.Config().MaxConcurrentLoads)
	assert.True(t, c.TryAcquireLoad())
	assert.False(t, c.TryAcquireLoad())
}

func TestController_LoadsBoundParallelism(t *testing.T) {
	c := NewController(Config{MaxConcurrentLoads: 3})

	var active, peak atomic.Int64
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, c.AcquireLoad(context.Background())) {
				return
			}
			defer c.ReleaseLoad()

			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int64(3))
}

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(t.Context(), 60))
	require.NoError(t, c.AcquireMemory(t.Context(), 40))
	assert.Equal(t, int64(100), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(ctx, 1), context.DeadlineExceeded)
	assert.False(t, c.TryAcquireMemory(1))

	c.ReleaseMemory(60)
	assert.Equal(t, int64(40), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(50))
	assert.Equal(t, int64(90), c.MemoryUsage())

	assert.ErrorIs(t, c.AcquireMemory(t.Context(), 101), ErrMemoryLimitExceeded)
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireMemory(t.Context(), 1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	// The bucket starts full, so one burst passes at once.
	start := time.Now()
	require.NoError(t, c.AcquireIO(t.Context(), 1000))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	// Requests beyond the burst are split instead of rejected.
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireIO(ctx, 5000))
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()
	assert.NoError(t, c.AcquireLoad(ctx))
	assert.True(t, c.TryAcquireLoad())
	c.ReleaseLoad()
	assert.NoError(t, c.AcquireMemory(ctx, 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	assert.NoError(t, c.AcquireIO(ctx, 1<<20))
	assert.Equal(t, Config{}, c.Config())
}
