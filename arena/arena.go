package arena

import (
	"fmt"
	"os"

	"github.com/arenakit/arenakit/internal/format"
	"github.com/arenakit/arenakit/internal/mmap"
)

// Runtime debug flag for allocation logging - controlled by ARENA_LOG_ALLOC env var.
var logAlloc = os.Getenv("ARENA_LOG_ALLOC") != ""

// Ref names an allocation - the uint32 byte offset of its payload from the
// start of the arena. Refs are returned by Alloc and consumed by Free.
type Ref = uint32

// NilRef is the zero Ref. A payload always sits behind a header, so offset
// zero can never name a valid allocation.
const NilRef Ref = 0

// headOffset is the offset of the first block header. The list starts at
// the arena's first byte and the head never moves.
const headOffset = 0

// state tracks the one-shot lifecycle of an Arena:
// uninitialized → initialized → closed, never backwards.
type state uint8

const (
	stateUninitialized state = iota
	stateInitialized
	stateClosed
)

// Arena is a fixed-size allocation region obtained once from the host,
// backed by an anonymous mapping (unix) or a byte slice (others). Blocks
// are tracked in-band: every block starts with a format.HeaderSize header
// followed by the payload handed out by Alloc.
//
// An Arena is not safe for concurrent use; see SafeArena.
type Arena struct {
	data    []byte
	release func() error
	st      state
	stats   Stats

	// acquire obtains the backing region. Swapped in tests to simulate
	// host allocation failure.
	acquire func(n int) ([]byte, func() error, error)
}

// New returns an empty arena. It is unusable until Init or InitBuffer
// succeeds.
func New() *Arena {
	return &Arena{acquire: mmap.Alloc}
}

// Init acquires the backing region from the host and installs the single
// spanning free block. sizeBytes is rounded up to the host page size.
// Init may succeed at most once per arena; later calls fail with
// ErrAlreadyInitialized. No partial state survives a failed call.
func (a *Arena) Init(sizeBytes int) error {
	switch a.st {
	case stateInitialized:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrClosed
	}
	if sizeBytes <= 0 {
		return ErrInvalidSize
	}
	size := format.AlignUp(sizeBytes, os.Getpagesize())
	if size > format.MaxArenaSize {
		return ErrInvalidSize
	}
	data, release, err := a.acquire(size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackingAlloc, err)
	}
	a.data = data
	a.release = release
	a.install()
	a.st = stateInitialized
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ARENA] Init: requested %d bytes → mapped %d bytes\n", sizeBytes, size)
	}
	return nil
}

// InitBuffer installs the arena over a caller-provided buffer instead of a
// host mapping. No page rounding is applied: the buffer length must be a
// word multiple and hold at least one header plus one word of payload.
// The buffer belongs to the arena until Close; the same one-shot rules as
// Init apply.
func (a *Arena) InitBuffer(buf []byte) error {
	switch a.st {
	case stateInitialized:
		return ErrAlreadyInitialized
	case stateClosed:
		return ErrClosed
	}
	if len(buf) < format.MinArenaSize || len(buf) > format.MaxArenaSize {
		return ErrInvalidSize
	}
	if len(buf)%format.WordSize != 0 {
		return ErrInvalidSize
	}
	a.data = buf
	a.release = nil
	a.install()
	a.st = stateInitialized
	return nil
}

// install writes the single free block spanning the whole arena.
func (a *Arena) install() {
	writeHeader(a.data, headOffset, header{
		next:   format.NilOffset,
		size:   uint32(len(a.data) - format.HeaderSize),
		status: format.StatusFree,
	})
}

// Close releases the backing region. Outstanding payload slices and refs
// must not be used afterwards; every later operation fails with ErrClosed.
// Closing twice is a no-op.
func (a *Arena) Close() error {
	if a.st != stateInitialized {
		a.st = stateClosed
		return nil
	}
	var err error
	if a.release != nil {
		err = a.release()
		a.release = nil
	}
	a.data = nil
	a.st = stateClosed
	return err
}

// Size returns the arena length in bytes, zero before initialization.
func (a *Arena) Size() int { return len(a.data) }

// ready gates every operation that walks the block list.
func (a *Arena) ready() error {
	switch a.st {
	case stateUninitialized:
		return ErrNotInitialized
	case stateClosed:
		return ErrClosed
	}
	return nil
}
