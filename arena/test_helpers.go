package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenakit/arenakit/internal/format"
)

// ============================================================================
// Arena construction utilities
// ============================================================================

// newTestArena returns an arena initialized over a plain n-byte buffer.
// Buffer-backed arenas keep the tests independent from the host pager and
// page size.
func newTestArena(t testing.TB, n int) *Arena {
	t.Helper()
	a := New()
	require.NoError(t, a.InitBuffer(make([]byte, n)), "InitBuffer(%d)", n)
	return a
}

// mustAlloc allocates n bytes or fails the test.
func mustAlloc(t testing.TB, a *Arena, n int) Ref {
	t.Helper()
	ref, payload, err := a.Alloc(n)
	require.NoError(t, err, "Alloc(%d)", n)
	require.NotEqual(t, NilRef, ref, "Alloc(%d) returned NilRef", n)
	require.GreaterOrEqual(t, len(payload), n, "Alloc(%d) payload too short", n)
	return ref
}

// newFreeRunArena builds the layout F40 B4 F100 B4 F60: three free blocks
// of the named payload sizes separated by one-word busy blocks. The five
// blocks tile the 268-byte buffer exactly, so no trailing block exists.
// Returns the payload refs the three free blocks had while busy; a block's
// payload offset is its identity, so a later Alloc landing on the same
// block returns the same ref.
func newFreeRunArena(t testing.TB) (*Arena, [3]Ref) {
	t.Helper()
	a := newTestArena(t, 268)
	f1 := mustAlloc(t, a, 40)
	mustAlloc(t, a, 4)
	f2 := mustAlloc(t, a, 100)
	mustAlloc(t, a, 4)
	f3 := mustAlloc(t, a, 60)
	require.NoError(t, a.Free(f1))
	require.NoError(t, a.Free(f2))
	require.NoError(t, a.Free(f3))
	assertBlocks(t, a,
		blockSpec{Free, 40}, blockSpec{Busy, 4}, blockSpec{Free, 100},
		blockSpec{Busy, 4}, blockSpec{Free, 60})
	return a, [3]Ref{f1, f2, f3}
}

// ============================================================================
// Invariant and layout assertions
// ============================================================================

// assertInvariants walks the raw block list and checks the structural
// invariants: headers tile the arena exactly from offset 0, payload sizes
// are word aligned, statuses are well formed, and no two adjacent blocks
// are both free.
func assertInvariants(t testing.TB, a *Arena) {
	t.Helper()

	total := 0
	prevFree := false
	off := headOffset
	for {
		h := readHeader(a.data, off)
		assert.Zero(t, int(h.size)%format.WordSize,
			"payload size %d at 0x%X not word aligned", h.size, off)
		switch h.status {
		case format.StatusFree:
			assert.False(t, prevFree, "adjacent free blocks at 0x%X", off)
			prevFree = true
		case format.StatusBusy:
			prevFree = false
		default:
			assert.FailNow(t, "unknown block status", "status %d at 0x%X", h.status, off)
		}
		total += format.HeaderSize + int(h.size)
		if h.next == format.NilOffset {
			break
		}
		require.Equal(t, uint32(off+format.HeaderSize)+h.size, h.next,
			"block at 0x%X does not tile to its successor", off)
		off = int(h.next)
	}
	assert.Equal(t, len(a.data), total, "blocks must cover the arena exactly")
}

// blockSpec is the shape of one expected block for assertBlocks.
type blockSpec struct {
	status Status
	size   uint32
}

// assertBlocks checks the arena's block sequence in address order and then
// the structural invariants.
func assertBlocks(t testing.TB, a *Arena, want ...blockSpec) {
	t.Helper()
	snap, err := a.Snapshot()
	require.NoError(t, err, "Snapshot")
	require.Len(t, snap.Blocks, len(want), "block count")
	for i, w := range want {
		assert.Equal(t, w.status, snap.Blocks[i].Status, "block %d status", i+1)
		assert.Equal(t, w.size, snap.Blocks[i].Size, "block %d payload size", i+1)
	}
	assertInvariants(t, a)
}
