package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/arenakit/arenakit/arena"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	// If help overlay is showing, render it
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	// If detail view is visible, use overlay to render foreground over background
	if m.blockDetail.IsVisible() {
		// Create overlay with current model state
		// We recreate it each render to ensure it has the latest state
		// (since bubbletea's Update returns new models, stored pointers would be stale)
		mainView := NewMainViewModel(&m)
		detailOverlay := overlay.New(
			&m.blockDetail,
			mainView,
			overlay.Center, // horizontal position
			overlay.Center, // vertical position
			0,
			0,
		)
		return detailOverlay.View()
	}

	// Otherwise render normal view (no overlay)
	header := m.renderHeader()
	content := m.renderContent()
	status := m.renderStatus()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		status,
	)
}

// listHeight is the number of block rows visible in the list pane.
// Must stay in sync with the box heights in renderContent.
func (m Model) listHeight() int {
	return max(m.height-8, 5)
}

// listPageSize is how far PageUp/PageDown move the cursor
func (m Model) listPageSize() int {
	return m.listHeight()
}

// renderHeader renders the header with the arena size and block count
func (m Model) renderHeader() string {
	title := "Arena Explorer"
	info := fmt.Sprintf("Arena: %d bytes in %d blocks", m.totals.ArenaBytes, len(m.blocks))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render(title),
		lipgloss.NewStyle().Render("  "),
		arenaInfoStyle.Render(info),
	)
}

// renderContent renders the block list pane and the summary column
func (m Model) renderContent() string {
	// Calculate pane widths (60-40 split)
	listWidth := m.width * 3 / 5
	summaryWidth := m.width - listWidth

	// Calculate pane height (account for header and status bar)
	paneHeight := m.listHeight()

	// Render block list pane
	listTitle := fmt.Sprintf("Blocks (%d)", len(m.blocks))
	if len(m.blocks) > 0 {
		listTitle = fmt.Sprintf("Blocks (%d) [%d/%d]", len(m.blocks), m.cursor+1, len(m.blocks))
	}

	listContent := m.renderBlockList(paneHeight)
	listPane := lipgloss.NewStyle().
		Width(listWidth - 2).
		Height(paneHeight).
		Render(listContent)

	listBox := activePaneStyle.
		Width(listWidth - 2).
		Height(paneHeight + 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, listTitle, listPane))

	// Right column: summary panel above the arena map
	summaryBox := paneStyle.
		Width(summaryWidth - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, "Summary", m.renderSummary()))

	mapBox := paneStyle.
		Width(summaryWidth - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, "Map", m.renderArenaMap(summaryWidth-6)))

	rightColumn := lipgloss.JoinVertical(
		lipgloss.Left,
		summaryBox,
		mapBox,
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		listBox,
		rightColumn,
	)
}

// renderBlockList renders the scrolling block table
func (m Model) renderBlockList(visible int) string {
	if len(m.blocks) == 0 {
		return "(no blocks)"
	}

	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-5s %-5s %-10s %10s", "#", "ST", "BEGIN", "SIZE")))
	b.WriteString("\n")

	rows := visible - 1 // header line
	if rows < 1 {
		rows = 1
	}

	// Keep the cursor in the visible window
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := start + rows
	if end > len(m.blocks) {
		end = len(m.blocks)
	}

	for i := start; i < end; i++ {
		blk := m.blocks[i]
		line := fmt.Sprintf("%-5s %-5s 0x%08X %9d B",
			fmt.Sprintf("#%d", blk.Index), blk.Status, blk.Begin, blk.Size)

		if i == m.cursor {
			b.WriteString(tableSelectedStyle.Render(line))
		} else {
			b.WriteString(getStatusStyle(blk.Status).Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderSummary renders totals and allocator counters
func (m Model) renderSummary() string {
	busyBlocks, freeBlocks := 0, 0
	for _, blk := range m.blocks {
		if blk.Status == arena.Busy {
			busyBlocks++
		} else {
			freeBlocks++
		}
	}

	used := 0.0
	if m.totals.ArenaBytes > 0 {
		used = float64(m.totals.BusyBytes) / float64(m.totals.ArenaBytes) * 100
	}

	stats := m.arena.Stats()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Busy:   %d bytes (%d blocks)\n", m.totals.BusyBytes, busyBlocks))
	b.WriteString(fmt.Sprintf("Free:   %d bytes (%d blocks)\n", m.totals.FreeBytes, freeBlocks))
	b.WriteString(fmt.Sprintf("Used:   %.1f%%\n", used))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Allocs: %d (%d failed)\n", stats.AllocCalls, stats.FailedAllocs))
	b.WriteString(fmt.Sprintf("Frees:  %d\n", stats.FreeCalls))
	b.WriteString(fmt.Sprintf("Splits: %d\n", stats.SplitCount))
	b.WriteString(fmt.Sprintf("Merges: %d back, %d fwd", stats.CoalesceBackward, stats.CoalesceForward))

	return b.String()
}

// renderArenaMap renders a proportional one-line map of the block layout
func (m Model) renderArenaMap(width int) string {
	if width < 4 || len(m.blocks) == 0 || m.totals.ArenaBytes == 0 {
		return ""
	}

	var b strings.Builder
	remaining := width
	for i, blk := range m.blocks {
		if remaining == 0 {
			break
		}

		span := int(float64(blk.TotalSize) / float64(m.totals.ArenaBytes) * float64(width))
		if span < 1 {
			span = 1
		}
		if span > remaining {
			span = remaining
		}
		remaining -= span

		cell, style := getMapCell(blk.Status)
		run := strings.Repeat(cell, span)
		if i == m.cursor {
			b.WriteString(tableSelectedStyle.Render(run))
		} else {
			b.WriteString(style.Render(run))
		}
	}

	return b.String()
}

// renderStatus renders the status bar with help text
func (m Model) renderStatus() string {
	// Show input prompt if in alloc mode
	if m.inputMode == AllocMode {
		prompt := inputPromptStyle.Render("Alloc size: ") + m.inputBuffer + "█"
		return statusStyle.Width(m.width).Render(prompt)
	}

	// Show status message if set (takes priority over normal help)
	if m.statusMessage != "" {
		return statusStyle.Width(m.width).Render(
			inputPromptStyle.Render(m.statusMessage),
		)
	}

	// Build help text based on context
	var help strings.Builder

	if m.blockDetail.IsVisible() {
		help.WriteString(helpStyle.Render("ESC: Close Detail"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("↑/↓: Scroll"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("q: Quit"))
	} else {
		help.WriteString(helpStyle.Render("↑/↓: Navigate"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("a: Alloc"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("x: Free"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("Enter: Detail"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("c: Copy report"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("?: Help"))
		help.WriteString(" │ ")
		help.WriteString(helpStyle.Render("q: Quit"))
	}

	// Status line with byte counts
	var statsBuilder strings.Builder
	statsBuilder.WriteString(statusCountStyle.Render(fmt.Sprintf("%d", m.totals.BusyBytes)))
	statsBuilder.WriteString(" busy │ ")
	statsBuilder.WriteString(statusCountStyle.Render(fmt.Sprintf("%d", m.totals.FreeBytes)))
	statsBuilder.WriteString(" free")

	// Join help and stats
	statusLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		help.String(),
		lipgloss.NewStyle().Width(10).Render(""), // Spacer
		statsBuilder.String(),
	)

	return statusStyle.
		Width(m.width).
		Render(statusLine)
}

// renderHelpOverlay renders the help overlay
func (m Model) renderHelpOverlay() string {
	// Create help content
	var helpContent strings.Builder

	// Title
	title := helpTitleStyle.Render("Keyboard Shortcuts")
	helpContent.WriteString(title)
	helpContent.WriteString("\n\n")

	// Key column width for alignment
	const keyWidth = 14

	// Navigation section
	helpContent.WriteString(modalTitleStyle.Render("Navigation"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("↑/↓ or k/j"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Move cursor up/down"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("PgUp/PgDn"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Move cursor a page at a time"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("Home or g"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Go to first block"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("End or G"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Go to last block"))
	helpContent.WriteString("\n\n")

	// Allocator section
	helpContent.WriteString(modalTitleStyle.Render("Allocator"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("a"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Allocate (type a size, then Enter)"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("x"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Free the selected block"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("Enter"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Show block details"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("Esc"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Close detail or cancel input"))
	helpContent.WriteString("\n\n")

	// Other section
	helpContent.WriteString(modalTitleStyle.Render("Other"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("c"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Copy the block table to the clipboard"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("F5"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Re-read the block layout"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("?"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Show this help"))
	helpContent.WriteString("\n")
	helpContent.WriteString(helpKeyStyle.Width(keyWidth).Render("q or Ctrl+C"))
	helpContent.WriteString("  ")
	helpContent.WriteString(helpDescStyle.Render("Quit"))
	helpContent.WriteString("\n\n")

	helpContent.WriteString(helpStyle.Render("Press Esc, ?, or q to close this help"))

	// Create bordered help box
	helpBox := modalStyle.
		Width(60).
		Render(helpContent.String())

	// Calculate centering
	helpHeight := lipgloss.Height(helpBox)
	helpWidth := lipgloss.Width(helpBox)

	verticalPadding := (m.height - helpHeight) / 2
	horizontalPadding := (m.width - helpWidth) / 2

	if verticalPadding < 0 {
		verticalPadding = 0
	}
	if horizontalPadding < 0 {
		horizontalPadding = 0
	}

	// Position the help box
	positioned := lipgloss.NewStyle().
		MarginTop(verticalPadding).
		MarginLeft(horizontalPadding).
		Render(helpBox)

	return positioned
}
