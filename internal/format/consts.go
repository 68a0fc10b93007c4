// Package format houses the low-level byte layout of arena block headers.
// The goal is to keep field access in one place, allocation-free, and
// independent from the public API so higher-level packages can orchestrate
// the block list in a more ergonomic form.
//
// Every block in an arena starts with a fixed 12-byte header followed by
// the payload handed to the caller. Headers are addressed by byte offset
// from the start of the arena buffer and are read and written exclusively
// through the accessors in this package; no header is ever materialized
// through pointer casts.
package format

const (
	// HeaderSize is the number of bytes used by the block header preceding
	// every payload (free or busy) within an arena.
	// Layout (little-endian):
	//   0x00  next    uint32  offset of the next header, NilOffset if last
	//   0x04  size    uint32  payload size in bytes
	//   0x08  status  uint32  StatusFree or StatusBusy
	HeaderSize = 12

	// NextFieldOffset is the offset of the successor link within a header.
	NextFieldOffset = 0x00

	// SizeFieldOffset is the offset of the payload size within a header.
	SizeFieldOffset = 0x04

	// StatusFieldOffset is the offset of the status tag within a header.
	StatusFieldOffset = 0x08

	// WordSize is the alignment unit for payload sizes. Every payload size
	// is rounded up to a multiple of this before a block is carved.
	WordSize = 4

	// WordMask is the bitmask used for aligning to word boundaries (WordSize - 1).
	WordMask = WordSize - 1

	// MinArenaSize is the smallest buffer an arena can be built over: one
	// header plus one word of payload.
	MinArenaSize = HeaderSize + WordSize

	// MaxArenaSize caps the arena length so every header offset fits a
	// uint32 with room below NilOffset.
	MaxArenaSize = 1 << 31
)

const (
	// NilOffset marks the absence of a successor in a header's next field.
	// Offset 0 is a valid header position (the head block), so the zero
	// value cannot serve as the terminator.
	NilOffset = ^uint32(0)

	// StatusFree tags a block whose payload is available for allocation.
	StatusFree uint32 = 0

	// StatusBusy tags a block whose payload is held by a caller.
	StatusBusy uint32 = 1
)
