package arena

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenakit/arenakit/internal/format"
)

func TestSnapshotAccounting(t *testing.T) {
	a := newTestArena(t, 1024)
	mustAlloc(t, a, 100)
	ref2 := mustAlloc(t, a, 40)
	mustAlloc(t, a, 8)
	require.NoError(t, a.Free(ref2))

	snap, err := a.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, int64(1024), snap.Totals.ArenaBytes, "grand total equals the arena size")
	assert.Equal(t, snap.Totals.ArenaBytes, snap.Totals.BusyBytes+snap.Totals.FreeBytes)

	var busy, free int64
	for _, b := range snap.Blocks {
		assert.Equal(t, b.Begin+b.Size, b.End, "End is one past the last payload byte")
		assert.Equal(t, b.Size+format.HeaderSize, b.TotalSize)
		assert.Equal(t, b.Begin-format.HeaderSize, b.HeaderBegin)
		if b.Status == Busy {
			busy += int64(b.TotalSize)
		} else {
			free += int64(b.TotalSize)
		}
	}
	assert.Equal(t, busy, snap.Totals.BusyBytes)
	assert.Equal(t, free, snap.Totals.FreeBytes)

	for i, b := range snap.Blocks {
		assert.Equal(t, i+1, b.Index, "indexes are 1-based in address order")
	}
}

func TestSnapshotSurvivesLaterMutation(t *testing.T) {
	a := newTestArena(t, 1024)
	ref := mustAlloc(t, a, 64)

	snap, err := a.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Blocks, 2)

	require.NoError(t, a.Free(ref))
	mustAlloc(t, a, 500)

	// The copy still describes the old layout.
	assert.Equal(t, Busy, snap.Blocks[0].Status)
	assert.Equal(t, uint32(64), snap.Blocks[0].Size)
}

func TestReportTableLayout(t *testing.T) {
	// 96-byte arena carved into one busy and one free block: rows are
	// fully predictable.
	a := newTestArena(t, 96)
	mustAlloc(t, a, 20)

	var buf bytes.Buffer
	require.NoError(t, a.Report(&buf))
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Banner, column header, rule, two rows, rule, footer, three totals,
	// footer.
	require.Len(t, lines, 11, "unexpected report shape:\n%s", out)
	assert.Equal(t, "No.\tStatus\tBegin\t\tEnd\t\tSize\tt_Size\tt_Begin", lines[1])
	assert.Equal(t, "1\tBusy\t0x0000000C\t0x00000020\t20\t32\t0x00000000", lines[3])
	assert.Equal(t, "2\tFree\t0x0000002C\t0x00000060\t52\t64\t0x00000020", lines[4])
	assert.Contains(t, lines, "Total busy size = 32")
	assert.Contains(t, lines, "Total free size = 64")
	assert.Contains(t, lines, "Total size = 96")
}

func TestReportGrandTotalTracksArena(t *testing.T) {
	a := newTestArena(t, 2048)
	refs := []Ref{mustAlloc(t, a, 16), mustAlloc(t, a, 200), mustAlloc(t, a, 52)}
	require.NoError(t, a.Free(refs[1]))

	var buf bytes.Buffer
	require.NoError(t, a.Report(&buf))
	assert.Contains(t, buf.String(), fmt.Sprintf("Total size = %d", a.Size()))
}

func TestBlocksIteratorDrainsToEOF(t *testing.T) {
	a := newTestArena(t, 1024)
	mustAlloc(t, a, 32)
	mustAlloc(t, a, 32)

	it, err := a.Blocks()
	require.NoError(t, err)

	seen := 0
	var prevOffset uint32
	for {
		b, nextErr := it.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		require.NoError(t, nextErr)
		if seen > 0 {
			assert.Greater(t, b.Offset, prevOffset, "blocks arrive in address order")
		}
		assert.Equal(t, int(b.Size), len(b.Payload))
		assert.Equal(t, b.Offset+format.HeaderSize, b.PayloadOffset())
		prevOffset = b.Offset
		seen++
	}
	assert.Equal(t, 3, seen, "two busy blocks plus the trailing free block")

	// Past the end the iterator keeps answering io.EOF.
	_, nextErr := it.Next()
	assert.ErrorIs(t, nextErr, io.EOF)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "Free", Free.String())
	assert.Equal(t, "Busy", Busy.String())
	assert.Equal(t, "Unknown", Status(7).String())

	text, err := Busy.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Busy", string(text))
}
