package arena

import (
	"io"

	"github.com/arenakit/arenakit/internal/format"
)

// Status is the allocation state of a block.
type Status uint32

const (
	// Free marks a block whose payload is available for allocation.
	Free = Status(format.StatusFree)
	// Busy marks a block whose payload is held by a caller.
	Busy = Status(format.StatusBusy)
)

// String returns the dump-table spelling of the status.
func (s Status) String() string {
	switch s {
	case Free:
		return "Free"
	case Busy:
		return "Busy"
	}
	return "Unknown"
}

// MarshalText renders the status as its string form in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// header is the decoded form of a block header. Headers live in-band at
// the block's offset and are read and written only through these helpers.
type header struct {
	next   uint32 // offset of the next header, format.NilOffset if last
	size   uint32 // payload size in bytes
	status uint32 // format.StatusFree or format.StatusBusy
}

func readHeader(data []byte, off int) header {
	return header{
		next:   format.ReadU32(data, off+format.NextFieldOffset),
		size:   format.ReadU32(data, off+format.SizeFieldOffset),
		status: format.ReadU32(data, off+format.StatusFieldOffset),
	}
}

func writeHeader(data []byte, off int, h header) {
	format.PutU32(data, off+format.NextFieldOffset, h.next)
	format.PutU32(data, off+format.SizeFieldOffset, h.size)
	format.PutU32(data, off+format.StatusFieldOffset, h.status)
}

func setNext(data []byte, off int, next uint32) {
	format.PutU32(data, off+format.NextFieldOffset, next)
}

func setSize(data []byte, off int, size uint32) {
	format.PutU32(data, off+format.SizeFieldOffset, size)
}

func setStatus(data []byte, off int, status uint32) {
	format.PutU32(data, off+format.StatusFieldOffset, status)
}

// Block is a read-only view of one block in the arena.
type Block struct {
	Offset  uint32 // offset of the block header
	Size    uint32 // payload size in bytes
	Status  Status
	Payload []byte // zero-copy view into the arena
}

// PayloadOffset returns the offset of the first payload byte, which is
// also the Ref Alloc hands out for this block.
func (b Block) PayloadOffset() uint32 { return b.Offset + format.HeaderSize }

// TotalSize returns the header plus payload span in bytes.
func (b Block) TotalSize() uint32 { return b.Size + format.HeaderSize }

// BlockIterator walks the block list in address order.
type BlockIterator struct {
	a    *Arena
	next uint32
	done bool
}

// Blocks returns an iterator positioned at the first block. Any Alloc or
// Free on the arena invalidates the iterator.
func (a *Arena) Blocks() (*BlockIterator, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}
	return &BlockIterator{a: a, next: headOffset}, nil
}

// Next returns the next block or io.EOF after the last one.
func (it *BlockIterator) Next() (Block, error) {
	if it.done {
		return Block{}, io.EOF
	}
	data := it.a.data
	off := int(it.next)
	h := readHeader(data, off)
	b := Block{
		Offset:  uint32(off),
		Size:    h.size,
		Status:  Status(h.status),
		Payload: data[off+format.HeaderSize : off+format.HeaderSize+int(h.size)],
	}
	if h.next == format.NilOffset {
		it.done = true
	} else {
		it.next = h.next
	}
	return b, nil
}
