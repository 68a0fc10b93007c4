package arena

import (
	"fmt"
	"os"

	"github.com/arenakit/arenakit/internal/format"
)

// Alloc carves size bytes out of the lowest-addressed free block large
// enough to hold them (first fit). size is rounded up to the word unit
// before the search. On success the returned Ref names the payload for a
// later Free and the slice is a zero-copy view of the payload bytes.
//
// When the chosen block is larger than the rounded request, the remainder
// becomes a new free block if it can hold a header of its own; otherwise
// the whole block is handed out and the extra bytes ride along as internal
// fragmentation.
func (a *Arena) Alloc(size int) (Ref, []byte, error) {
	if err := a.ready(); err != nil {
		return NilRef, nil, err
	}
	a.stats.AllocCalls++

	if size <= 0 {
		return NilRef, nil, ErrInvalidSize
	}
	need := format.AlignWord(size)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ALLOC] Request: %d bytes → aligned to %d bytes\n", size, need)
	}

	off, h, ok := a.firstFit(need)
	if !ok {
		a.stats.FailedAllocs++
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[ALLOC] NO FIT: need=%d, arena=%d bytes\n", need, len(a.data))
		}
		return NilRef, nil, ErrOutOfMemory
	}

	rem := int(h.size) - need
	if rem >= format.HeaderSize {
		// Split: keep need bytes in the chosen block and carve a free tail
		// block out of the remainder. A zero-payload tail is legal.
		a.stats.SplitCount++
		tailOff := off + format.HeaderSize + need
		writeHeader(a.data, tailOff, header{
			next:   h.next,
			size:   uint32(rem - format.HeaderSize),
			status: format.StatusFree,
		})
		setNext(a.data, off, uint32(tailOff))
		setSize(a.data, off, uint32(need))
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[SPLIT] block=0x%08X: payload %d → %d busy + %d free tail\n",
				off, h.size, need, rem-format.HeaderSize)
		}
	} else {
		// Absorb the remainder - too small to host a header.
		need = int(h.size)
	}
	setStatus(a.data, off, format.StatusBusy)

	a.stats.BytesAllocated += int64(need)

	payload := a.data[off+format.HeaderSize : off+format.HeaderSize+need]
	return Ref(off + format.HeaderSize), payload, nil
}

// firstFit returns the offset and header of the lowest-addressed free
// block whose payload holds at least need bytes. The scan follows next
// links from the head, so address order is the tie-breaker for free.
func (a *Arena) firstFit(need int) (int, header, bool) {
	off := headOffset
	for {
		h := readHeader(a.data, off)
		if h.status == format.StatusFree && int(h.size) >= need {
			return off, h, true
		}
		if h.next == format.NilOffset {
			return 0, header{}, false
		}
		off = int(h.next)
	}
}
