package blockdetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arenakit/arenakit/arena"
)

// MaxPreviewBytes caps how much payload the detail view loads.
const MaxPreviewBytes = 256

// Model shows detailed information about a selected block
type Model struct {
	info     *arena.BlockInfo
	payload  []byte
	viewport viewport.Model
	width    int
	height   int
	visible  bool
}

// NewModel creates a new block detail model
func NewModel() Model {
	return Model{
		viewport: viewport.New(0, 0),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Show displays details for a block. The payload slice is owned by the
// caller and must not alias live arena memory.
func (m *Model) Show(info arena.BlockInfo, payload []byte) {
	m.info = &info
	m.payload = payload
	m.visible = true
	m.updateContent()
}

// Hide closes the detail view
func (m *Model) Hide() {
	m.visible = false
	m.info = nil
	m.payload = nil
}

// IsVisible returns whether the detail view is currently shown
func (m *Model) IsVisible() bool {
	return m.visible
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportSize()
		m.updateContent()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateViewportSize adjusts the viewport to the modal dimensions.
// The modal takes 80% of the screen, centered by the overlay package.
// Account for: border (2 lines) + padding (2 lines top+bottom) = 4 vertical
//
//	border (2 cols) + padding (4 cols left+right) = 6 horizontal
func (m *Model) updateViewportSize() {
	m.viewport.Width = int(float64(m.width)*0.8) - 6
	m.viewport.Height = int(float64(m.height)*0.8) - 4
}

// ruleWidth keeps separator lines sane before the first resize arrives.
func (m *Model) ruleWidth() int {
	if m.viewport.Width < 10 {
		return 8
	}
	return m.viewport.Width - 2
}

// updateContent generates the detailed view content
func (m *Model) updateContent() {
	if m.info == nil {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	b.WriteString(titleStyle.Render(fmt.Sprintf("Block #%d (%s)", m.info.Index, m.info.Status)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Header at:    0x%08X\n", m.info.HeaderBegin))
	b.WriteString(fmt.Sprintf("Payload at:   0x%08X\n", m.info.Begin))
	b.WriteString(fmt.Sprintf("Payload end:  0x%08X\n", m.info.End))
	b.WriteString(fmt.Sprintf("Payload size: %d bytes\n", m.info.Size))
	b.WriteString(fmt.Sprintf("Total size:   %d bytes (incl. header)\n", m.info.TotalSize))
	b.WriteString("\n")

	switch {
	case m.info.Status == arena.Free:
		b.WriteString("(free block, payload is available for allocation)\n")
	case len(m.payload) == 0:
		b.WriteString("(no payload preview)\n")
	default:
		b.WriteString("Payload:\n")
		b.WriteString(strings.Repeat("─", m.ruleWidth()))
		b.WriteString("\n")
		b.WriteString(formatHexDump(m.payload))
		b.WriteString("\n")
		if int(m.info.Size) > len(m.payload) {
			b.WriteString(fmt.Sprintf("\n(first %d of %d bytes)\n", len(m.payload), m.info.Size))
		}
	}

	m.viewport.SetContent(b.String())
}

// formatHexDump creates a hex dump with ASCII sidebar
func formatHexDump(data []byte) string {
	if len(data) == 0 {
		return "(empty)"
	}

	var b strings.Builder
	const bytesPerLine = 16

	for offset := 0; offset < len(data); offset += bytesPerLine {
		// Offset
		b.WriteString(fmt.Sprintf("%08x  ", offset))

		// Hex bytes
		lineEnd := offset + bytesPerLine
		if lineEnd > len(data) {
			lineEnd = len(data)
		}

		for i := offset; i < lineEnd; i++ {
			b.WriteString(fmt.Sprintf("%02x ", data[i]))
			if i == offset+7 {
				b.WriteString(" ") // Extra space in the middle
			}
		}

		// Padding for incomplete lines
		remaining := bytesPerLine - (lineEnd - offset)
		for i := 0; i < remaining; i++ {
			b.WriteString("   ")
		}
		if remaining > 8 {
			b.WriteString(" ")
		}

		// ASCII representation
		b.WriteString(" |")
		for i := offset; i < lineEnd; i++ {
			if data[i] >= 32 && data[i] <= 126 {
				b.WriteByte(data[i])
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|")

		if lineEnd < len(data) {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// View renders the detail view as a centered popup
func (m Model) View() string {
	if !m.visible || m.info == nil {
		return ""
	}

	// The overlay package handles centering, so we just render the box.
	// The viewport is already sized to fit within the border+padding.
	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2)

	return borderStyle.Render(m.viewport.View())
}
