//go:build !unix

package mmap

import "fmt"

// Alloc returns a zeroed heap slice when anonymous mapping is not available.
func Alloc(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid length (%d bytes)", n)
	}
	return make([]byte, n), func() error { return nil }, nil
}
