package format

// Alignment utilities for arena layout. Payload sizes are aligned to the
// word unit; the arena itself is rounded to the host page size when the
// backing region comes from the OS.

// AlignWord returns n aligned up to the next word (4-byte) boundary.
// Used for payload sizes so every block starts word-aligned.
//
// Example:
//
//	AlignWord(1) = 4
//	AlignWord(4) = 4
//	AlignWord(5) = 8
func AlignWord(n int) int {
	return (n + WordMask) & ^WordMask
}

// AlignUp returns n aligned up to the next multiple of boundary.
// boundary must be a power of two; used with the host page size when
// rounding the requested arena length.
//
// Example:
//
//	AlignUp(1, 4096)    = 4096
//	AlignUp(4096, 4096) = 4096
//	AlignUp(4097, 4096) = 8192
func AlignUp(n, boundary int) int {
	mask := boundary - 1
	return (n + mask) & ^mask
}
