package arena

import "errors"

var (
	// ErrInvalidSize indicates a non-positive size passed to Init or Alloc.
	ErrInvalidSize = errors.New("arena: size must be positive")

	// ErrAlreadyInitialized indicates a second Init attempt on the same arena.
	ErrAlreadyInitialized = errors.New("arena: already initialized")

	// ErrBackingAlloc indicates the host could not supply the backing region.
	ErrBackingAlloc = errors.New("arena: backing allocation failed")

	// ErrNotInitialized indicates an operation before a successful Init.
	ErrNotInitialized = errors.New("arena: not initialized")

	// ErrOutOfMemory indicates that no free block large enough was found.
	ErrOutOfMemory = errors.New("arena: no free block large enough")

	// ErrInvalidPointer indicates a ref that does not name the payload of a
	// tracked busy block.
	ErrInvalidPointer = errors.New("arena: invalid block reference")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: closed")
)
