package dispatch_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hbomb79/castmirror/internal/dispatch"
)

func TestPool_PreservesPerKeyOrder(t *testing.T) {
	pool := dispatch.NewPool(4)

	var mu sync.Mutex
	var order []int

	for i := 0; i < 20; i++ {
		i := i
		pool.Submit("same-path", dispatch.Task{Label: "t", Run: func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}})
	}

	pool.Close()

	require := assert.New(t)
	require.Len(order, 20)
	for i, v := range order {
		require.Equal(i, v)
	}
}

func TestPool_RunsDistinctKeysConcurrently(t *testing.T) {
	pool := dispatch.NewPool(8)

	var inFlight int32
	var maxInFlight int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		key := string(rune('a' + i))
		wg.Add(1)
		pool.Submit(key, dispatch.Task{Label: "t", Run: func() {
			defer wg.Done()
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				max := atomic.LoadInt32(&maxInFlight)
				if cur <= max || atomic.CompareAndSwapInt32(&maxInFlight, max, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}})
	}

	wg.Wait()
	pool.Close()

	assert.Greater(t, atomic.LoadInt32(&maxInFlight), int32(1))
}
