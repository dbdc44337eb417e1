package keymap

import tea "github.com/charmbracelet/bubbletea"

// EventKind distinguishes key presses from repeat/release reports.
type EventKind int

const (
	Press EventKind = iota
	Repeat
	Release
)

// KeyEvent is a physical key event in bubbletea's string notation
// ("a", "G", "ctrl+r", "esc", "pgdown", " ").
type KeyEvent struct {
	Key  string
	Kind EventKind
}

func (e KeyEvent) String() string { return e.Key }

// Pressed returns a press event for key.
func Pressed(key string) KeyEvent { return KeyEvent{Key: key, Kind: Press} }

// FromTea converts a bubbletea key message. The terminal only reports
// presses, so the kind is always Press.
func FromTea(msg tea.KeyMsg) KeyEvent {
	return KeyEvent{Key: msg.String(), Kind: Press}
}

// Rune returns the single printable rune carried by the event, if any.
func (e KeyEvent) Rune() (rune, bool) {
	r := []rune(e.Key)
	if len(r) != 1 {
		return 0, false
	}
	return r[0], true
}

// Focus is the panel that currently owns keyboard input.
type Focus int

const (
	FocusSidebar Focus = iota
	FocusEditor
	FocusTable
)

// Next cycles Sidebar -> Editor -> Table -> Sidebar.
func (f Focus) Next() Focus {
	switch f {
	case FocusSidebar:
		return FocusEditor
	case FocusEditor:
		return FocusTable
	default:
		return FocusSidebar
	}
}

func (f Focus) String() string {
	switch f {
	case FocusEditor:
		return "Editor"
	case FocusTable:
		return "Table"
	default:
		return "Sidebar"
	}
}
