package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arenakit/arenakit/arena"
	"github.com/arenakit/arenakit/cmd/arenaview/blockdetail"
	"github.com/arenakit/arenakit/cmd/arenaview/logger"
)

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	AllocMode
)

// Model is the main application model
type Model struct {
	arena  *arena.Arena
	blocks []arena.BlockInfo
	totals arena.Totals

	blockDetail blockdetail.Model
	keys        KeyMap

	cursor int
	width  int
	height int

	// Input modes
	inputMode   InputMode
	inputBuffer string // Buffer for allocation size input

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string

	err error
}

// NewModel creates a new TUI model backed by a freshly mapped arena.
// When demo is true the arena is seeded with a small fragmented layout
// so there is something to look at on startup.
func NewModel(size int, demo bool) (Model, error) {
	a := arena.New()
	if err := a.Init(size); err != nil {
		return Model{}, err
	}

	m := Model{
		arena:       a,
		blockDetail: blockdetail.NewModel(),
		keys:        DefaultKeyMap(),
		inputMode:   NormalMode,
	}

	if demo {
		seedDemo(a)
	}

	if err := m.refresh(); err != nil {
		a.Close()
		return Model{}, err
	}

	return m, nil
}

// seedDemo performs a few allocations and one release so the startup
// layout shows a split, a hole, and a busy run. Errors are logged and
// otherwise ignored; a tiny arena just starts emptier.
func seedDemo(a *arena.Arena) {
	var refs []arena.Ref
	for _, size := range []int{100, 200, 50} {
		ref, _, err := a.Alloc(size)
		if err != nil {
			logger.Warn("demo alloc failed", "size", size, "error", err)
			return
		}
		refs = append(refs, ref)
	}
	if err := a.Free(refs[1]); err != nil {
		logger.Warn("demo free failed", "error", err)
	}
}

// refresh re-reads the block layout from the arena and clamps the cursor.
func (m *Model) refresh() error {
	snap, err := m.arena.Snapshot()
	if err != nil {
		return err
	}
	m.blocks = snap.Blocks
	m.totals = snap.Totals
	if m.cursor >= len(m.blocks) {
		m.cursor = len(m.blocks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return nil
}

// selectedBlock returns the block under the cursor, or false when the
// list is empty.
func (m *Model) selectedBlock() (arena.BlockInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.blocks) {
		return arena.BlockInfo{}, false
	}
	return m.blocks[m.cursor], true
}

// blockPayload copies up to max payload bytes of the given block for
// display. The copy keeps the detail modal stable while the arena
// mutates underneath it.
func (m *Model) blockPayload(info arena.BlockInfo, max int) []byte {
	it, err := m.arena.Blocks()
	if err != nil {
		return nil
	}
	for {
		b, err := it.Next()
		if err != nil {
			return nil
		}
		if b.Offset != info.HeaderBegin {
			continue
		}
		n := len(b.Payload)
		if n > max {
			n = max
		}
		return append([]byte(nil), b.Payload[:n]...)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Close releases the arena's backing memory.
// Should be called when the TUI exits.
func (m *Model) Close() error {
	if m.arena == nil {
		return nil
	}
	err := m.arena.Close()
	m.arena = nil
	return err
}

// Messages

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type clearStatusMsg struct{}
