package main

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arenakit/arenakit/arena"
	"github.com/arenakit/arenakit/cmd/arenaview/blockdetail"
	"github.com/arenakit/arenakit/cmd/arenaview/logger"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If help is showing, handle help keys
		if m.showHelp {
			if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
				m.showHelp = false
				return m, nil
			}
			// Ignore other keys when help is showing
			return m, nil
		}

		// If detail view is open, handle its keys
		if m.blockDetail.IsVisible() {
			if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Enter) {
				m.blockDetail.Hide()
				return m, nil
			}
			// Forward Up/Down/PageUp/PageDown to detail view for scrolling
			if key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down) ||
				key.Matches(msg, m.keys.PageUp) || key.Matches(msg, m.keys.PageDown) {
				var model tea.Model
				model, cmd = (&m.blockDetail).Update(msg)
				m.blockDetail = *model.(*blockdetail.Model)
				if cmd != nil {
					cmds = append(cmds, cmd)
				}
				return m, tea.Batch(cmds...)
			}
			// Still allow quit
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			// Ignore other keys when detail is open
			return m, nil
		}

		// Handle allocation size input
		if m.inputMode == AllocMode {
			return m.handleAllocInput(msg)
		}

		// Global keys
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		// Show help overlay
		if key.Matches(msg, m.keys.Help) {
			m.showHelp = true
			return m, nil
		}

		// Enter allocation input mode
		if key.Matches(msg, m.keys.Alloc) {
			m.inputMode = AllocMode
			m.inputBuffer = ""
			return m, nil
		}

		// Release the selected block
		if key.Matches(msg, m.keys.FreeBlock) {
			return m.handleFreeSelected()
		}

		// Copy the block table to the clipboard
		if key.Matches(msg, m.keys.CopyReport) {
			return m.handleCopyReport()
		}

		// Re-read the layout
		if key.Matches(msg, m.keys.Refresh) {
			if err := m.refresh(); err != nil {
				m.err = err
				return m, nil
			}
			m.statusMessage = "Refreshed"
			return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
				return clearStatusMsg{}
			})
		}

		// Open block detail
		if key.Matches(msg, m.keys.Enter) {
			if info, ok := m.selectedBlock(); ok {
				var payload []byte
				if info.Status == arena.Busy {
					payload = m.blockPayload(info, blockdetail.MaxPreviewBytes)
				}
				m.blockDetail.Show(info, payload)
			}
			return m, nil
		}

		// Esc clears any lingering status message
		if key.Matches(msg, m.keys.Esc) {
			m.statusMessage = ""
			return m, nil
		}

		// List navigation
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.blocks)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.PageUp):
			m.cursor -= m.listPageSize()
		case key.Matches(msg, m.keys.PageDown):
			m.cursor += m.listPageSize()
			if m.cursor > len(m.blocks)-1 {
				m.cursor = len(m.blocks) - 1
			}
		case key.Matches(msg, m.keys.Home):
			m.cursor = 0
		case key.Matches(msg, m.keys.End):
			m.cursor = len(m.blocks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Forward to the detail modal so it can resize its viewport
		var model tea.Model
		model, cmd = (&m.blockDetail).Update(msg)
		m.blockDetail = *model.(*blockdetail.Model)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case errMsg:
		logger.Error("Error occurred", "error", msg.err)
		m.err = msg.err
		return m, nil

	case clearStatusMsg:
		// Clear status message
		m.statusMessage = ""
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// handleAllocInput processes keys while an allocation size is being typed
func (m Model) handleAllocInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Cancel input mode
		m.inputMode = NormalMode
		m.inputBuffer = ""
		return m, nil

	case tea.KeyEnter:
		sizeStr := m.inputBuffer
		m.inputMode = NormalMode
		m.inputBuffer = ""
		if sizeStr == "" {
			return m, nil
		}
		return m.handleAlloc(sizeStr)

	case tea.KeyBackspace, tea.KeyDelete:
		// Remove last character
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
		return m, nil

	case tea.KeyRunes:
		// Only digits make sense for a size
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' {
				m.inputBuffer += string(r)
			}
		}
		return m, nil
	}

	return m, nil
}

// handleAlloc performs the allocation typed into the input prompt
func (m Model) handleAlloc(sizeStr string) (tea.Model, tea.Cmd) {
	size, err := strconv.Atoi(sizeStr)
	if err != nil {
		m.statusMessage = fmt.Sprintf("Bad size %q", sizeStr)
		return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}

	ref, _, err := m.arena.Alloc(size)
	if err != nil {
		logger.Warn("alloc failed", "size", size, "error", err)
		switch {
		case errors.Is(err, arena.ErrOutOfMemory):
			m.statusMessage = fmt.Sprintf("No free block fits %d bytes", size)
		case errors.Is(err, arena.ErrInvalidSize):
			m.statusMessage = "Size must be positive"
		default:
			m.statusMessage = fmt.Sprintf("Alloc failed: %v", err)
		}
		return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}

	logger.Info("alloc", "size", size, "ref", uint32(ref))
	if err := m.refresh(); err != nil {
		m.err = err
		return m, nil
	}

	// Move the cursor to the new block
	for i, b := range m.blocks {
		if b.Begin == uint32(ref) {
			m.cursor = i
			break
		}
	}

	m.statusMessage = fmt.Sprintf("✓ Allocated %d bytes at 0x%08X", size, uint32(ref))
	return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// handleFreeSelected releases the block under the cursor
func (m Model) handleFreeSelected() (tea.Model, tea.Cmd) {
	info, ok := m.selectedBlock()
	if !ok {
		return m, nil
	}

	if info.Status == arena.Free {
		m.statusMessage = fmt.Sprintf("Block #%d is already free", info.Index)
		return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}

	if err := m.arena.Free(arena.Ref(info.Begin)); err != nil {
		logger.Warn("free failed", "ref", info.Begin, "error", err)
		m.statusMessage = fmt.Sprintf("Free failed: %v", err)
		return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}

	logger.Info("free", "ref", info.Begin, "size", info.Size)
	if err := m.refresh(); err != nil {
		m.err = err
		return m, nil
	}

	m.statusMessage = fmt.Sprintf("✓ Freed block #%d (%d bytes)", info.Index, info.Size)
	return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// handleCopyReport copies the block table to the system clipboard
func (m Model) handleCopyReport() (tea.Model, tea.Cmd) {
	var buf bytes.Buffer
	if err := m.arena.Report(&buf); err != nil {
		m.statusMessage = fmt.Sprintf("Report failed: %v", err)
		return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}

	if err := clipboard.WriteAll(buf.String()); err != nil {
		logger.Warn("clipboard write failed", "error", err)
		m.statusMessage = "Failed to copy report"
		return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}

	m.statusMessage = "✓ Report copied to clipboard"
	return m, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
