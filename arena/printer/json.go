package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/arenakit/arenakit/arena"
)

// jsonBlock represents a block in JSON format.
type jsonBlock struct {
	Index     int    `json:"index"`
	Status    string `json:"status"`
	Begin     uint32 `json:"begin"`
	End       uint32 `json:"end"`
	Size      uint32 `json:"size"`
	TotalSize uint32 `json:"total_size"`
	Payload   string `json:"payload,omitempty"`
}

// jsonStats represents allocator counters in JSON format.
type jsonStats struct {
	AllocCalls       int   `json:"alloc_calls"`
	FreeCalls        int   `json:"free_calls"`
	FailedAllocs     int   `json:"failed_allocs"`
	BytesAllocated   int64 `json:"bytes_allocated"`
	BytesFreed       int64 `json:"bytes_freed"`
	SplitCount       int   `json:"split_count"`
	CoalesceForward  int   `json:"coalesce_forward"`
	CoalesceBackward int   `json:"coalesce_backward"`
}

// jsonLayout represents a full layout listing in JSON format.
type jsonLayout struct {
	Blocks     []jsonBlock `json:"blocks"`
	BusyBytes  int64       `json:"busy_bytes"`
	FreeBytes  int64       `json:"free_bytes"`
	ArenaBytes int64       `json:"arena_bytes"`
}

// jsonSummary represents totals and counters in JSON format.
type jsonSummary struct {
	Blocks     int        `json:"blocks"`
	BusyBlocks int        `json:"busy_blocks"`
	FreeBlocks int        `json:"free_blocks"`
	BusyBytes  int64      `json:"busy_bytes"`
	FreeBytes  int64      `json:"free_bytes"`
	ArenaBytes int64      `json:"arena_bytes"`
	Stats      *jsonStats `json:"stats,omitempty"`
}

// printBlocksJSON prints the block list in JSON format.
func (p *Printer) printBlocksJSON(snap *arena.Snapshot) error {
	previews := p.previews()

	layout := jsonLayout{
		Blocks:     make([]jsonBlock, 0, len(snap.Blocks)),
		BusyBytes:  snap.Totals.BusyBytes,
		FreeBytes:  snap.Totals.FreeBytes,
		ArenaBytes: snap.Totals.ArenaBytes,
	}
	for _, info := range snap.Blocks {
		if !p.opts.ShowFree && info.Status == arena.Free {
			continue
		}
		layout.Blocks = append(layout.Blocks, p.buildJSONBlock(info, previews))
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printBlockJSON prints a single block in JSON format.
func (p *Printer) printBlockJSON(info arena.BlockInfo) error {
	data, err := json.MarshalIndent(p.buildJSONBlock(info, p.previews()), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printSummaryJSON prints totals and counters in JSON format.
func (p *Printer) printSummaryJSON(snap *arena.Snapshot) error {
	busy := 0
	for _, info := range snap.Blocks {
		if info.Status == arena.Busy {
			busy++
		}
	}

	summary := jsonSummary{
		Blocks:     len(snap.Blocks),
		BusyBlocks: busy,
		FreeBlocks: len(snap.Blocks) - busy,
		BusyBytes:  snap.Totals.BusyBytes,
		FreeBytes:  snap.Totals.FreeBytes,
		ArenaBytes: snap.Totals.ArenaBytes,
	}
	if p.opts.ShowStats {
		stats := p.src.Stats()
		summary.Stats = &jsonStats{
			AllocCalls:       stats.AllocCalls,
			FreeCalls:        stats.FreeCalls,
			FailedAllocs:     stats.FailedAllocs,
			BytesAllocated:   stats.BytesAllocated,
			BytesFreed:       stats.BytesFreed,
			SplitCount:       stats.SplitCount,
			CoalesceForward:  stats.CoalesceForward,
			CoalesceBackward: stats.CoalesceBackward,
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// buildJSONBlock converts a BlockInfo, attaching the hex payload preview
// when one was collected for the block.
func (p *Printer) buildJSONBlock(info arena.BlockInfo, previews map[uint32][]byte) jsonBlock {
	blk := jsonBlock{
		Index:     info.Index,
		Status:    info.Status.String(),
		Begin:     info.Begin,
		End:       info.End,
		Size:      info.Size,
		TotalSize: info.TotalSize,
	}
	if preview, ok := previews[info.HeaderBegin]; ok && len(preview) > 0 {
		hexStr := hex.EncodeToString(preview)
		if uint32(len(preview)) < info.Size {
			hexStr += fmt.Sprintf(" (truncated, %d total bytes)", info.Size)
		}
		blk.Payload = hexStr
	}
	return blk
}
