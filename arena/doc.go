// Package arena implements a fixed-size memory arena with first-fit
// allocation, block splitting, and neighbor coalescing.
//
// # Overview
//
// An Arena manages one contiguous region obtained exactly once from the
// host (an anonymous mapping on unix, a plain slice elsewhere or via
// InitBuffer). The region is carved into blocks tracked as an
// address-ordered singly linked list stored in-band: each block is a
// 12-byte header followed by the payload handed to the caller. Headers
// are addressed by byte offset and accessed through little-endian
// field readers, never through pointer casts.
//
// Allocation scans the list from the lowest address and takes the first
// free block large enough for the word-aligned request, splitting off the
// remainder as a new free block whenever it can hold a header of its own.
// Release validates the caller's Ref against the list, flips the block to
// free, and merges it with free neighbors - predecessor first, then
// successor - so two adjacent free blocks never persist.
//
// # Usage Example
//
//	a := arena.New()
//	if err := a.Init(64 * 1024); err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	ref, buf, err := a.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, hand the block back.
//	if err := a.Free(ref); err != nil {
//	    return err
//	}
//
// # Fixed Capacity
//
// The arena never grows: once no free block can hold a request, Alloc
// fails with ErrOutOfMemory until something is freed. Requests are
// rounded up to 4-byte words, and a block may carry up to 11 bytes of
// internal fragmentation when the remainder after a cut is too small to
// host a header.
//
// # Inspection
//
// Report writes the classic block-list table (index, status, begin, end,
// size, total size, header offset, and busy/free/grand totals) to any
// writer. Snapshot returns the same data programmatically, and Blocks
// iterates the raw block views. The printer subpackage renders snapshots
// in text or JSON form for tooling.
//
// # Thread Safety
//
// Arena instances are not thread-safe and not re-entrant. SafeArena
// wraps every operation in one mutex for callers that share an arena
// across goroutines.
package arena
