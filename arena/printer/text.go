package printer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/arenakit/arenakit/arena"
)

// printBlocksText prints the block list in human-readable text format.
func (p *Printer) printBlocksText(snap *arena.Snapshot) error {
	previews := p.previews()

	for _, info := range snap.Blocks {
		if !p.opts.ShowFree && info.Status == arena.Free {
			continue
		}
		p.printBlockLine(info)
		if preview, ok := previews[info.HeaderBegin]; ok {
			p.printPreviewLine(info, preview)
		}
	}

	fmt.Fprintf(p.writer, "%d blocks, %d bytes busy, %d bytes free\n",
		len(snap.Blocks), snap.Totals.BusyBytes, snap.Totals.FreeBytes)
	return nil
}

// printBlockText prints a single block in human-readable text format.
func (p *Printer) printBlockText(info arena.BlockInfo) error {
	p.printBlockLine(info)
	if previews := p.previews(); previews != nil {
		if preview, ok := previews[info.HeaderBegin]; ok {
			p.printPreviewLine(info, preview)
		}
	}
	return nil
}

// printSummaryText prints totals and counters in human-readable text format.
func (p *Printer) printSummaryText(snap *arena.Snapshot) error {
	busy := 0
	for _, info := range snap.Blocks {
		if info.Status == arena.Busy {
			busy++
		}
	}

	fmt.Fprintf(p.writer, "Blocks: %d (%d busy, %d free)\n",
		len(snap.Blocks), busy, len(snap.Blocks)-busy)
	fmt.Fprintf(p.writer, "Busy: %d bytes\n", snap.Totals.BusyBytes)
	fmt.Fprintf(p.writer, "Free: %d bytes\n", snap.Totals.FreeBytes)
	fmt.Fprintf(p.writer, "Arena: %d bytes (%.1f%% used)\n",
		snap.Totals.ArenaBytes, utilization(snap))

	if p.opts.ShowStats {
		stats := p.src.Stats()
		fmt.Fprintf(p.writer, "Allocations: %d (%d failed)\n", stats.AllocCalls, stats.FailedAllocs)
		fmt.Fprintf(p.writer, "Frees: %d\n", stats.FreeCalls)
		fmt.Fprintf(p.writer, "Splits: %d\n", stats.SplitCount)
		fmt.Fprintf(p.writer, "Merges: %d backward, %d forward\n",
			stats.CoalesceBackward, stats.CoalesceForward)
	}
	return nil
}

// printBlockLine writes the one-line form of a block:
//
//	#3 Busy 0x0000002C..0x00000060 size=52 total=64
func (p *Printer) printBlockLine(info arena.BlockInfo) {
	fmt.Fprintf(p.writer, "#%d %s 0x%08X..0x%08X size=%d total=%d\n",
		info.Index, info.Status, info.Begin, info.End, info.Size, info.TotalSize)
}

// printPreviewLine writes an indented hex preview with a printable gloss:
//
//	  data: 48656C6C6F |Hello|
func (p *Printer) printPreviewLine(info arena.BlockInfo, preview []byte) {
	if len(preview) == 0 {
		fmt.Fprintf(p.writer, "  data: <empty>\n")
		return
	}
	truncated := ""
	if uint32(len(preview)) < info.Size {
		truncated = fmt.Sprintf(" (truncated, %d total bytes)", info.Size)
	}
	fmt.Fprintf(p.writer, "  data: %X |%s|%s\n", preview, glossPayload(preview), truncated)
}

func utilization(snap *arena.Snapshot) float64 {
	if snap.Totals.ArenaBytes == 0 {
		return 0
	}
	return 100 * float64(snap.Totals.BusyBytes) / float64(snap.Totals.ArenaBytes)
}

// glossPayload renders payload bytes as printable text for hexdump-style
// previews. Payloads carry no declared encoding, so bytes are read as
// Windows-1252: every byte maps to exactly one rune, and anything that
// does not print is shown as a dot.
func glossPayload(data []byte) string {
	// Fast path: printable ASCII needs no decoding.
	ascii := true
	for _, b := range data {
		if b >= 0x80 {
			ascii = false
			break
		}
	}

	var runes []rune
	if ascii {
		runes = []rune(string(data))
	} else {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			runes = make([]rune, len(data))
		} else {
			runes = []rune(string(decoded))
		}
	}

	for i, r := range runes {
		if r == utf8.RuneError || !unicode.IsPrint(r) {
			runes[i] = '.'
		}
	}
	return string(runes)
}
