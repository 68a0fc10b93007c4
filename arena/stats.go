package arena

// Stats holds counters for allocator activity. Counters accumulate from
// Init until Close and are never reset.
type Stats struct {
	AllocCalls       int   // Total Alloc() calls reaching an initialized arena
	FreeCalls        int   // Total Free() calls reaching an initialized arena
	FailedAllocs     int   // Alloc() calls that returned ErrOutOfMemory
	BytesAllocated   int64 // Payload bytes handed out, after rounding and absorption
	BytesFreed       int64 // Payload bytes taken back by Free()
	SplitCount       int   // Blocks split during allocation
	CoalesceForward  int   // Released blocks merged with their successor
	CoalesceBackward int   // Released blocks merged into their predecessor
}

// Stats returns a copy of the arena's counters.
func (a *Arena) Stats() Stats {
	return a.stats
}
