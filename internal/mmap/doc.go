// Package mmap provides platform-specific helpers for acquiring the
// arena's backing memory region.
package mmap
