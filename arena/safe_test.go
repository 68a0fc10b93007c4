package arena

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenakit/arenakit/internal/format"
)

func TestSafeArenaBasicFlow(t *testing.T) {
	sa := NewSafe()
	require.NoError(t, sa.InitBuffer(make([]byte, 4096)))
	t.Cleanup(func() { _ = sa.Close() })

	ref, payload, err := sa.Alloc(100)
	require.NoError(t, err)
	assert.Len(t, payload, 100)
	assert.Equal(t, 4096, sa.Size())

	snap, err := sa.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Blocks, 2)
	assert.Equal(t, int64(112), snap.Totals.BusyBytes)

	var buf bytes.Buffer
	require.NoError(t, sa.Report(&buf))
	assert.Contains(t, buf.String(), "Total busy size = 112")

	require.NoError(t, sa.Free(ref))
	assert.Equal(t, 1, sa.Stats().FreeCalls)
}

func TestSafeArenaSecondInitRejected(t *testing.T) {
	sa := NewSafe()
	require.NoError(t, sa.InitBuffer(make([]byte, 1024)))
	t.Cleanup(func() { _ = sa.Close() })

	assert.ErrorIs(t, sa.Init(4096), ErrAlreadyInitialized)
	assert.ErrorIs(t, sa.InitBuffer(make([]byte, 1024)), ErrAlreadyInitialized)
}

func TestSafeArenaConcurrentAllocFree(t *testing.T) {
	const (
		workers    = 8
		iterations = 200
	)

	sa := NewSafe()
	require.NoError(t, sa.InitBuffer(make([]byte, 1<<16)))
	t.Cleanup(func() { _ = sa.Close() })

	errs := make(chan error, workers*iterations)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				size := 8 + (seed*37+i*13)%240
				ref, payload, err := sa.Alloc(size)
				if err != nil {
					errs <- err
					return
				}
				payload[0] = byte(seed)
				payload[len(payload)-1] = byte(i)
				if err := sa.Free(ref); err != nil {
					errs <- err
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("worker failed: %v", err)
	}

	// Every allocation was released, so the store must have collapsed
	// back into the single spanning free block.
	snap, err := sa.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Blocks, 1)
	assert.Equal(t, Free, snap.Blocks[0].Status)
	assert.Equal(t, int64(1<<16), snap.Totals.ArenaBytes)
	assert.Zero(t, snap.Totals.BusyBytes)

	stats := sa.Stats()
	assert.Equal(t, workers*iterations, stats.AllocCalls)
	assert.Equal(t, workers*iterations, stats.FreeCalls)
	assert.Equal(t, stats.BytesAllocated, stats.BytesFreed)
	assert.Zero(t, stats.FailedAllocs)

	sa.mu.Lock()
	assertInvariants(t, sa.a)
	sa.mu.Unlock()
}

func TestSafeArenaConcurrentReaders(t *testing.T) {
	sa := NewSafe()
	require.NoError(t, sa.InitBuffer(make([]byte, 8192)))
	t.Cleanup(func() { _ = sa.Close() })

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, err := sa.Snapshot(); err != nil {
				t.Errorf("snapshot: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 100; i++ {
		ref, _, err := sa.Alloc(16 + (i%8)*format.WordSize)
		require.NoError(t, err)
		require.NoError(t, sa.Free(ref))
	}
	close(done)
	wg.Wait()
}
