package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arenakit/arenakit/arena"
	"github.com/arenakit/arenakit/cmd/arenaview/blockdetail"
)

// TestHelper provides utilities for testing TUI components
type TestHelper struct {
	model Model
}

// NewTestHelper creates a test helper with a model backed by a real arena.
// The arena sits on a plain buffer of exactly size bytes, so block layouts
// are stable regardless of the host page size.
func NewTestHelper(size int, demo bool) *TestHelper {
	a := arena.New()
	if err := a.InitBuffer(make([]byte, size)); err != nil {
		panic(err)
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
		panic(err)
	}

	return &TestHelper{model: m}
}

// SendKey simulates a key press
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	msg := tea.KeyMsg{Type: keyType}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	msg := tea.WindowSizeMsg{Width: width, Height: height}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// GetModel returns the current model
func (h *TestHelper) GetModel() Model {
	return h.model
}

// GetView returns the rendered view
func (h *TestHelper) GetView() string {
	return h.model.View()
}

// BlockCount returns the number of blocks in the last snapshot
func (h *TestHelper) BlockCount() int {
	return len(h.model.blocks)
}

// Close releases the arena backing the model
func (h *TestHelper) Close() {
	h.model.Close()
}
