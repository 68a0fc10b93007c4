package arena

import (
	"errors"
	"fmt"
	"io"
)

// BlockInfo describes one block in a layout snapshot. Begin, End, and
// HeaderBegin are byte offsets from the start of the arena; End is one
// past the last payload byte.
type BlockInfo struct {
	Index       int    `json:"index"` // 1-based, address order
	Status      Status `json:"status"`
	Begin       uint32 `json:"begin"`
	End         uint32 `json:"end"`
	Size        uint32 `json:"size"`
	TotalSize   uint32 `json:"total_size"`
	HeaderBegin uint32 `json:"header_begin"`
}

// Totals is the byte accounting of a snapshot. Busy and free count whole
// blocks (header plus payload); their sum always equals the arena size.
type Totals struct {
	BusyBytes  int64 `json:"busy_bytes"`
	FreeBytes  int64 `json:"free_bytes"`
	ArenaBytes int64 `json:"arena_bytes"`
}

// Snapshot is a point-in-time copy of the block layout. Unlike a
// BlockIterator it stays valid after later Alloc and Free calls.
type Snapshot struct {
	Blocks []BlockInfo `json:"blocks"`
	Totals Totals      `json:"totals"`
}

// Snapshot walks the block list and returns its current layout.
func (a *Arena) Snapshot() (*Snapshot, error) {
	it, err := a.Blocks()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	for i := 1; ; i++ {
		b, nextErr := it.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		snap.Blocks = append(snap.Blocks, BlockInfo{
			Index:       i,
			Status:      b.Status,
			Begin:       b.PayloadOffset(),
			End:         b.PayloadOffset() + b.Size,
			Size:        b.Size,
			TotalSize:   b.TotalSize(),
			HeaderBegin: b.Offset,
		})
		if b.Status == Busy {
			snap.Totals.BusyBytes += int64(b.TotalSize())
		} else {
			snap.Totals.FreeBytes += int64(b.TotalSize())
		}
	}
	snap.Totals.ArenaBytes = snap.Totals.BusyBytes + snap.Totals.FreeBytes
	return snap, nil
}

const (
	reportBanner = "************************************Block list***********************************"
	reportRule   = "---------------------------------------------------------------------------------"
	reportFooter = "*********************************************************************************"
)

// Report writes a human-readable table of the current block layout: one
// row per block in address order, then busy, free, and grand totals. The
// grand total always equals the arena size. Report never mutates the
// arena and may run at any time between Init and Close.
func (a *Arena) Report(w io.Writer) error {
	snap, err := a.Snapshot()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, reportBanner)
	fmt.Fprintln(w, "No.\tStatus\tBegin\t\tEnd\t\tSize\tt_Size\tt_Begin")
	fmt.Fprintln(w, reportRule)
	for _, b := range snap.Blocks {
		fmt.Fprintf(w, "%d\t%s\t0x%08X\t0x%08X\t%d\t%d\t0x%08X\n",
			b.Index, b.Status, b.Begin, b.End, b.Size, b.TotalSize, b.HeaderBegin)
	}
	fmt.Fprintln(w, reportRule)
	fmt.Fprintln(w, reportFooter)
	fmt.Fprintf(w, "Total busy size = %d\n", snap.Totals.BusyBytes)
	fmt.Fprintf(w, "Total free size = %d\n", snap.Totals.FreeBytes)
	fmt.Fprintf(w, "Total size = %d\n", snap.Totals.ArenaBytes)
	fmt.Fprintln(w, reportFooter)
	return nil
}
