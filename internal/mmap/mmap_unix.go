//go:build unix

package mmap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Alloc obtains n bytes of zero-initialized, read/write memory from the
// OS as a private anonymous mapping. The returned cleanup releases the
// mapping; calling it more than once is a no-op.
func Alloc(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid length (%d bytes)", n)
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		if err := unix.Munmap(data); err != nil {
			if errors.Is(err, unix.EINVAL) {
				// Treat double-unmap as no-op for callers.
				return nil
			}
			return err
		}
		data = nil
		return nil
	}
	return data, cleanup, nil
}
