// Package printer renders arena layouts for human and machine consumption.
//
// It sits above the arena package: the arena produces Snapshot and Stats
// values, the printer turns them into formatted output. Two formats are
// supported, a line-per-block text listing and indented JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/arenakit/arenakit/arena"
)

const (
	DefaultMaxPayloadBytes = 16
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowPayloads includes a preview of each busy block's payload bytes.
	// Previews need raw block access, so this only takes effect when the
	// Source also implements PayloadSource; otherwise it is ignored.
	// Default: false
	ShowPayloads bool

	// MaxPayloadBytes limits how many payload bytes a preview displays.
	// Longer payloads are truncated. Set to 0 for no limit.
	// Default: 16
	MaxPayloadBytes int

	// ShowStats appends allocator counters to summary output.
	// Default: true
	ShowStats bool

	// ShowFree includes free blocks in block listings.
	// Default: true
	ShowFree bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:          FormatText,
		ShowPayloads:    false,
		MaxPayloadBytes: DefaultMaxPayloadBytes,
		ShowStats:       true,
		ShowFree:        true,
	}
}

// Source provides the layout and counters the printer renders. Both
// arena.Arena and arena.SafeArena satisfy it.
type Source interface {
	Snapshot() (*arena.Snapshot, error)
	Stats() arena.Stats
}

// PayloadSource is the optional raw-access side of a Source. Payload
// previews are only rendered when the Source implements it; arena.Arena
// does, arena.SafeArena does not (handing out live block views would
// bypass its lock).
type PayloadSource interface {
	Blocks() (*arena.BlockIterator, error)
}

// Printer handles formatted output of arena layouts.
type Printer struct {
	opts   Options
	writer io.Writer
	src    Source
}

// New creates a new Printer.
//
// The Source supplies layout snapshots and counters, the Writer receives
// the output, and Options controls formatting behavior.
//
// Example:
//
//	a := arena.New()
//	_ = a.Init(1 << 20)
//	p := printer.New(a, os.Stdout, printer.DefaultOptions())
//	p.PrintBlocks()
func New(src Source, w io.Writer, opts Options) *Printer {
	return &Printer{
		src:    src,
		writer: w,
		opts:   opts,
	}
}

// PrintBlocks prints every block in address order.
//
// Example:
//
//	opts := printer.DefaultOptions()
//	opts.ShowPayloads = true
//	p := printer.New(a, os.Stdout, opts)
//	p.PrintBlocks()
func (p *Printer) PrintBlocks() error {
	snap, err := p.src.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printBlocksJSON(snap)
	case FormatText:
		return p.printBlocksText(snap)
	default:
		return p.printBlocksText(snap)
	}
}

// PrintBlock prints a single block by its 1-based address-order index.
//
// Example:
//
//	p.PrintBlock(3)
func (p *Printer) PrintBlock(index int) error {
	snap, err := p.src.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if index < 1 || index > len(snap.Blocks) {
		return fmt.Errorf("block %d: index out of range [1..%d]", index, len(snap.Blocks))
	}
	info := snap.Blocks[index-1]

	switch p.opts.Format {
	case FormatJSON:
		return p.printBlockJSON(info)
	case FormatText:
		return p.printBlockText(info)
	default:
		return p.printBlockText(info)
	}
}

// PrintSummary prints the byte totals of the current layout, and the
// allocator counters unless ShowStats is disabled.
//
// Example:
//
//	opts := printer.DefaultOptions()
//	opts.Format = printer.FormatJSON
//	p := printer.New(a, os.Stdout, opts)
//	p.PrintSummary()
func (p *Printer) PrintSummary() error {
	snap, err := p.src.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printSummaryJSON(snap)
	case FormatText:
		return p.printSummaryText(snap)
	default:
		return p.printSummaryText(snap)
	}
}

// previews collects payload prefixes for busy blocks, keyed by header
// offset. Returns nil when previews are disabled or unavailable.
func (p *Printer) previews() map[uint32][]byte {
	if !p.opts.ShowPayloads {
		return nil
	}
	ps, ok := p.src.(PayloadSource)
	if !ok {
		return nil
	}
	it, err := ps.Blocks()
	if err != nil {
		return nil
	}
	out := make(map[uint32][]byte)
	for {
		b, err := it.Next()
		if err != nil {
			break
		}
		if b.Status != arena.Busy {
			continue
		}
		n := len(b.Payload)
		if p.opts.MaxPayloadBytes > 0 {
			n = min(n, p.opts.MaxPayloadBytes)
		}
		// Copy so the preview stays stable if the arena mutates later.
		out[b.Offset] = append([]byte(nil), b.Payload[:n]...)
	}
	return out
}
