package arena

import (
	"fmt"
	"os"

	"github.com/arenakit/arenakit/internal/format"
)

// Free returns the payload named by ref to the arena. ref must be a value
// previously returned by Alloc on the same arena and not yet freed;
// anything else fails with ErrInvalidPointer and changes nothing.
//
// After the status flip the freed block is merged with its free neighbors
// in two passes, predecessor first, so no two adjacent blocks are ever
// left free at the same time.
func (a *Arena) Free(ref Ref) error {
	if err := a.ready(); err != nil {
		return err
	}
	a.stats.FreeCalls++

	// NilRef and anything inside the head header cannot name a payload.
	if ref < format.HeaderSize {
		return ErrInvalidPointer
	}
	target := int(ref) - format.HeaderSize

	// Walk the list to the target. The walk both validates that ref names
	// a tracked block and yields the predecessor for the merge below.
	prev := -1
	off := headOffset
	for off != target {
		h := readHeader(a.data, off)
		if h.next == format.NilOffset || int(h.next) > target {
			return ErrInvalidPointer
		}
		prev = off
		off = int(h.next)
	}

	h := readHeader(a.data, off)
	if h.status != format.StatusBusy {
		// Double free.
		return ErrInvalidPointer
	}
	setStatus(a.data, off, format.StatusFree)
	a.stats.BytesFreed += int64(h.size)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[FREE] block=0x%08X payload=%d\n", off, h.size)
	}

	// Pass 1: merge into a free predecessor. The merged block becomes the
	// current block for the successor pass.
	if prev >= 0 {
		ph := readHeader(a.data, prev)
		if ph.status == format.StatusFree {
			a.stats.CoalesceBackward++
			setSize(a.data, prev, ph.size+format.HeaderSize+h.size)
			setNext(a.data, prev, h.next)
			off = prev
			h = readHeader(a.data, off)
		}
	}

	// Pass 2: merge a free successor into the current block.
	if h.next != format.NilOffset {
		nh := readHeader(a.data, int(h.next))
		if nh.status == format.StatusFree {
			a.stats.CoalesceForward++
			setSize(a.data, off, h.size+format.HeaderSize+nh.size)
			setNext(a.data, off, nh.next)
		}
	}
	return nil
}
