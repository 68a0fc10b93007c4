package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenakit/arenakit/internal/format"
)

func TestFreeRoundTripRestoresSpanningBlock(t *testing.T) {
	a := newTestArena(t, 4096)
	spanning := uint32(4096 - format.HeaderSize)

	ref, _, err := a.Alloc(500)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))

	// Alloc split the spanning block; Free must merge it back whole.
	assertBlocks(t, a, blockSpec{Free, spanning})
}

func TestFreeRejectsNilRef(t *testing.T) {
	a := newTestArena(t, 4096)
	assert.ErrorIs(t, a.Free(NilRef), ErrInvalidPointer)
}

func TestFreeRejectsRefInsideHeader(t *testing.T) {
	a := newTestArena(t, 4096)
	for _, ref := range []Ref{1, 4, format.HeaderSize - 1} {
		assert.ErrorIs(t, a.Free(ref), ErrInvalidPointer, "Free(%d)", ref)
	}
}

func TestFreeRejectsUntrackedRef(t *testing.T) {
	a := newTestArena(t, 4096)
	ref := mustAlloc(t, a, 64)

	// Offsets inside a payload, between blocks, or past the arena never
	// name a block.
	for _, bad := range []Ref{ref + 4, ref + 63, 100000} {
		assert.ErrorIs(t, a.Free(bad), ErrInvalidPointer, "Free(%d)", bad)
	}

	// The store is untouched by the rejected calls.
	assertBlocks(t, a,
		blockSpec{Busy, 64},
		blockSpec{Free, uint32(4096 - 2*format.HeaderSize - 64)})
}

func TestFreeRejectsDoubleFree(t *testing.T) {
	a := newTestArena(t, 4096)
	ref := mustAlloc(t, a, 64)

	require.NoError(t, a.Free(ref))
	assert.ErrorIs(t, a.Free(ref), ErrInvalidPointer, "second Free of the same ref")
	assertInvariants(t, a)
}

func TestFreeRejectsRefToFreeTail(t *testing.T) {
	a := newTestArena(t, 4096)
	ref := mustAlloc(t, a, 64)

	// The split tail is a tracked free block; releasing it is a caller error.
	tail := ref + 64 + format.HeaderSize
	assert.ErrorIs(t, a.Free(tail), ErrInvalidPointer)
}

func TestFreeMergesWithPredecessor(t *testing.T) {
	a, _ := newPinnedHoleArena(t, 64)

	// Carve the hole in two, then free left before right: releasing the
	// right half must fold it into the already-free left half.
	left, _, err := a.Alloc(16)
	require.NoError(t, err)
	right, _, err := a.Alloc(36)
	require.NoError(t, err)
	assertBlocks(t, a,
		blockSpec{Busy, 16}, blockSpec{Busy, 16}, blockSpec{Busy, 36}, blockSpec{Busy, 16})

	require.NoError(t, a.Free(left))
	before := a.Stats()
	require.NoError(t, a.Free(right))

	assertBlocks(t, a, blockSpec{Busy, 16}, blockSpec{Free, 64}, blockSpec{Busy, 16})
	after := a.Stats()
	assert.Equal(t, before.CoalesceBackward+1, after.CoalesceBackward, "one predecessor merge")
	assert.Equal(t, before.CoalesceForward, after.CoalesceForward, "no successor merge")
}

func TestFreeMergesWithSuccessor(t *testing.T) {
	a, _ := newPinnedHoleArena(t, 64)

	left, _, err := a.Alloc(16)
	require.NoError(t, err)
	right, _, err := a.Alloc(36)
	require.NoError(t, err)

	require.NoError(t, a.Free(right))
	before := a.Stats()
	require.NoError(t, a.Free(left))

	assertBlocks(t, a, blockSpec{Busy, 16}, blockSpec{Free, 64}, blockSpec{Busy, 16})
	after := a.Stats()
	assert.Equal(t, before.CoalesceForward+1, after.CoalesceForward, "one successor merge")
	assert.Equal(t, before.CoalesceBackward, after.CoalesceBackward, "no predecessor merge")
}

func TestFreeMergesBothSides(t *testing.T) {
	// Three abutting busy blocks with busy guards around them; freeing the
	// outer two and then the middle one must merge all three in one call.
	// Five 16-byte blocks tile the buffer exactly.
	a := newTestArena(t, 5*(format.HeaderSize+16))
	mustAlloc(t, a, 16)
	b1, _, err := a.Alloc(16)
	require.NoError(t, err)
	b2, _, err := a.Alloc(16)
	require.NoError(t, err)
	b3, _, err := a.Alloc(16)
	require.NoError(t, err)
	mustAlloc(t, a, 16)
	// 16+16+16 payloads plus two interior headers merge into 72.
	require.NoError(t, a.Free(b1))
	require.NoError(t, a.Free(b3))

	before := a.Stats()
	require.NoError(t, a.Free(b2))
	after := a.Stats()

	assertBlocks(t, a, blockSpec{Busy, 16}, blockSpec{Free, 72}, blockSpec{Busy, 16})
	assert.Equal(t, before.CoalesceBackward+1, after.CoalesceBackward)
	assert.Equal(t, before.CoalesceForward+1, after.CoalesceForward)
}

// TestFullCoalescingAnyOrder releases three adjacently-allocated blocks in
// every order and expects a single spanning free block each time.
func TestFullCoalescingAnyOrder(t *testing.T) {
	orders := []struct {
		name  string
		order [3]int
	}{
		{"left middle right", [3]int{0, 1, 2}},
		{"left right middle", [3]int{0, 2, 1}},
		{"middle left right", [3]int{1, 0, 2}},
		{"middle right left", [3]int{1, 2, 0}},
		{"right left middle", [3]int{2, 0, 1}},
		{"right middle left", [3]int{2, 1, 0}},
	}
	for _, tc := range orders {
		t.Run(tc.name, func(t *testing.T) {
			// Exactly three 20-byte blocks tile the 96-byte buffer.
			a := newTestArena(t, 96)
			var refs [3]Ref
			refs[0] = mustAlloc(t, a, 20)
			refs[1] = mustAlloc(t, a, 20)
			refs[2] = mustAlloc(t, a, 20)
			assertBlocks(t, a,
				blockSpec{Busy, 20}, blockSpec{Busy, 20}, blockSpec{Busy, 20})

			for _, i := range tc.order {
				require.NoError(t, a.Free(refs[i]))
				assertInvariants(t, a)
			}
			assertBlocks(t, a, blockSpec{Free, 96 - format.HeaderSize})
		})
	}
}

// TestNoAdjacentFreeAfterEveryRelease frees a scattered workload in a
// scrambled order and checks the invariants after every single release.
func TestNoAdjacentFreeAfterEveryRelease(t *testing.T) {
	a := newTestArena(t, 8192)

	sizes := []int{8, 120, 16, 300, 4, 64, 52, 1000, 36, 200, 24, 12}
	refs := make([]Ref, 0, len(sizes))
	for _, n := range sizes {
		refs = append(refs, mustAlloc(t, a, n))
	}

	// Fixed scramble: middle-out with jumps, so merges hit both sides.
	order := []int{5, 0, 11, 3, 8, 1, 10, 6, 2, 9, 4, 7}
	require.Len(t, order, len(refs))
	for _, i := range order {
		require.NoError(t, a.Free(refs[i]))
		assertInvariants(t, a)
	}
	assertBlocks(t, a, blockSpec{Free, 8192 - format.HeaderSize})
}

func TestFreeAccountsBytes(t *testing.T) {
	a := newTestArena(t, 4096)

	ref, payload, err := a.Alloc(100)
	require.NoError(t, err)
	require.NoError(t, a.Free(ref))

	stats := a.Stats()
	assert.Equal(t, int64(len(payload)), stats.BytesAllocated)
	assert.Equal(t, int64(len(payload)), stats.BytesFreed, "freed bytes mirror the carved payload")
	assert.Equal(t, 1, stats.AllocCalls)
	assert.Equal(t, 1, stats.FreeCalls)
}
