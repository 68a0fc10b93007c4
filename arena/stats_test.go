package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAccumulate(t *testing.T) {
	a := newTestArena(t, 4096)

	r1, _, err := a.Alloc(100)
	require.NoError(t, err)
	r2, _, err := a.Alloc(60)
	require.NoError(t, err)
	require.NoError(t, a.Free(r1))
	require.NoError(t, a.Free(r2))

	// Both allocations split the spanning block; the second free merges
	// backward into the first hole and forward into the trailing block.
	stats := a.Stats()
	assert.Equal(t, 2, stats.AllocCalls)
	assert.Equal(t, 2, stats.FreeCalls)
	assert.Equal(t, 2, stats.SplitCount)
	assert.Equal(t, 1, stats.CoalesceBackward)
	assert.Equal(t, 1, stats.CoalesceForward)
	assert.Equal(t, int64(160), stats.BytesAllocated)
	assert.Equal(t, int64(160), stats.BytesFreed)
	assert.Zero(t, stats.FailedAllocs)
}

func TestStatsCountFailedAllocs(t *testing.T) {
	a := newTestArena(t, 256)

	_, _, err := a.Alloc(1 << 20)
	require.ErrorIs(t, err, ErrOutOfMemory)
	_, _, err = a.Alloc(-1)
	require.ErrorIs(t, err, ErrInvalidSize)

	stats := a.Stats()
	assert.Equal(t, 2, stats.AllocCalls, "rejected requests still count as calls")
	assert.Equal(t, 1, stats.FailedAllocs, "only exhaustion counts as a failed alloc")
}

func TestStatsReturnsCopy(t *testing.T) {
	a := newTestArena(t, 4096)
	mustAlloc(t, a, 16)

	snapshot := a.Stats()
	mustAlloc(t, a, 16)

	assert.Equal(t, 1, snapshot.AllocCalls, "a Stats copy must not track later calls")
	assert.Equal(t, 2, a.Stats().AllocCalls)
}
