package arena

import (
	"io"
	"sync"
)

// SafeArena serializes every operation on an inner Arena with a single
// mutex, the coarse-grained locking variant for use from multiple
// goroutines. The unsynchronized Arena remains the baseline; nothing in
// its contract changes here.
//
// SafeArena exposes Snapshot but not Blocks: a live iterator cannot be
// handed out without letting the caller race later mutations.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafe returns a thread-safe wrapper around a fresh arena.
func NewSafe() *SafeArena {
	return &SafeArena{a: New()}
}

// Init acquires the backing region; see (*Arena).Init.
func (s *SafeArena) Init(sizeBytes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Init(sizeBytes)
}

// InitBuffer installs the arena over buf; see (*Arena).InitBuffer.
func (s *SafeArena) InitBuffer(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.InitBuffer(buf)
}

// Close releases the backing region; see (*Arena).Close.
func (s *SafeArena) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Close()
}

// Alloc carves out a payload; see (*Arena).Alloc. The returned slice is
// still a view into shared memory - concurrent writers must coordinate
// among themselves once payloads overlap goroutines.
func (s *SafeArena) Alloc(size int) (Ref, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Alloc(size)
}

// Free releases a payload; see (*Arena).Free.
func (s *SafeArena) Free(ref Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Free(ref)
}

// Snapshot copies the current block layout; see (*Arena).Snapshot.
func (s *SafeArena) Snapshot() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Snapshot()
}

// Report writes the layout table to w; see (*Arena).Report.
func (s *SafeArena) Report(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Report(w)
}

// Stats returns a copy of the counters; see (*Arena).Stats.
func (s *SafeArena) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Stats()
}

// Size returns the arena length in bytes.
func (s *SafeArena) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Size()
}
