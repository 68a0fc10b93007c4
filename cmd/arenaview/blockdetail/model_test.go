package blockdetail

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arenakit/arenakit/arena"
)

func sized(t *testing.T, m Model, width, height int) Model {
	t.Helper()
	updated, _ := (&m).Update(tea.WindowSizeMsg{Width: width, Height: height})
	return *updated.(*Model)
}

func TestShowHide(t *testing.T) {
	m := NewModel()
	if m.IsVisible() {
		t.Fatal("New model should not be visible")
	}
	if m.View() != "" {
		t.Fatal("Hidden model should render nothing")
	}

	m = sized(t, m, 100, 40)
	info := arena.BlockInfo{
		Index: 1, Status: arena.Busy,
		Begin: 12, End: 112, Size: 100, TotalSize: 112, HeaderBegin: 0,
	}
	m.Show(info, []byte("hello"))

	if !m.IsVisible() {
		t.Fatal("Model should be visible after Show")
	}
	if m.View() == "" {
		t.Fatal("Visible model should render content")
	}

	m.Hide()
	if m.IsVisible() {
		t.Error("Model should be hidden after Hide")
	}
	if m.View() != "" {
		t.Error("Hidden model should render nothing")
	}
}

func TestBusyBlockContent(t *testing.T) {
	m := sized(t, NewModel(), 100, 40)

	info := arena.BlockInfo{
		Index: 2, Status: arena.Busy,
		Begin: 124, End: 324, Size: 200, TotalSize: 212, HeaderBegin: 112,
	}
	m.Show(info, []byte("hello"))

	view := m.View()
	for _, want := range []string{
		"Block #2 (Busy)",
		"0x00000070", // header offset
		"0x0000007C", // payload offset
		"200 bytes",
		"68 65 6c 6c 6f",
		"|hello|",
		"(first 5 of 200 bytes)",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestFreeBlockContent(t *testing.T) {
	m := sized(t, NewModel(), 100, 40)

	info := arena.BlockInfo{
		Index: 3, Status: arena.Free,
		Begin: 400, End: 4096, Size: 3696, TotalSize: 3708, HeaderBegin: 388,
	}
	m.Show(info, nil)

	view := m.View()
	if !strings.Contains(view, "Block #3 (Free)") {
		t.Error("View should contain the free block title")
	}
	if !strings.Contains(view, "free block, payload is available") {
		t.Error("View should explain that the block is free")
	}
	if strings.Contains(view, "Payload:") {
		t.Error("Free blocks should not render a payload dump")
	}
}

func TestShowBeforeResizeDoesNotPanic(t *testing.T) {
	m := NewModel()
	info := arena.BlockInfo{Index: 1, Status: arena.Busy, Begin: 12, Size: 16, TotalSize: 28}
	m.Show(info, []byte{1, 2, 3})

	if !m.IsVisible() {
		t.Error("Model should be visible even before the first resize")
	}
}

func TestFormatHexDump(t *testing.T) {
	if got := formatHexDump(nil); got != "(empty)" {
		t.Errorf("Empty dump should be \"(empty)\", got %q", got)
	}

	short := formatHexDump([]byte("ABC"))
	if !strings.HasPrefix(short, "00000000  ") {
		t.Errorf("Dump should start with the offset, got %q", short)
	}
	if !strings.Contains(short, "41 42 43") {
		t.Errorf("Dump should contain the hex bytes, got %q", short)
	}
	if !strings.Contains(short, "|ABC|") {
		t.Errorf("Dump should contain the ASCII sidebar, got %q", short)
	}

	// Full line gets the mid-row gap after the 8th byte
	full := make([]byte, 16)
	for i := range full {
		full[i] = byte(i)
	}
	if !strings.Contains(formatHexDump(full), "07  08") {
		t.Error("Full line should have a double space after the 8th byte")
	}

	// A 17th byte wraps to a second line
	two := formatHexDump(append(full, 0xFF))
	if !strings.Contains(two, "\n00000010  ") {
		t.Errorf("17 bytes should produce a second line, got %q", two)
	}

	// Non-printable bytes render as dots
	dots := formatHexDump([]byte{0x00, 'A', 0x7F})
	if !strings.Contains(dots, "|.A.|") {
		t.Errorf("Non-printables should render as dots, got %q", dots)
	}
}
