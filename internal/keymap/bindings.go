package keymap

import "github.com/charmbracelet/bubbles/key"

// GlobalKeys are checked before any focus-specific table.
type GlobalKeys struct {
	Quit        key.Binding
	Help        key.Binding
	ToggleFocus key.Binding
	Execute     key.Binding
}

// HelpKeys replace every other table while the help overlay is open.
type HelpKeys struct {
	Close      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// TableKeys drive the result table.
type TableKeys struct {
	PreviousTab     key.Binding
	NextTab         key.Binding
	NextRow         key.Binding
	PreviousRow     key.Binding
	NextPage        key.Binding
	PreviousPage    key.Binding
	FirstRow        key.Binding
	LastRow         key.Binding
	ScrollRight     key.Binding
	ScrollLeft      key.Binding
	NextColumn      key.Binding
	PreviousColumn  key.Binding
	WidenColumn     key.Binding
	NarrowColumn    key.Binding
	NextColor       key.Binding
	PreviousColor   key.Binding
	CopyCell        key.Binding
	CopyRow         key.Binding
	CopyQuery       key.Binding
	RunHistoryQuery key.Binding
	SetTab          key.Binding
}

// SidebarKeys drive the schema tree.
type SidebarKeys struct {
	Toggle     key.Binding
	Left       key.Binding
	Right      key.Binding
	Down       key.Binding
	Up         key.Binding
	Deselect   key.Binding
	First      key.Binding
	Last       key.Binding
	ScrollDown key.Binding
	ScrollUp   key.Binding
}

// KeyMap bundles every binding table.
type KeyMap struct {
	Global  GlobalKeys
	Help    HelpKeys
	Table   TableKeys
	Sidebar SidebarKeys
	Editor  []key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Global: GlobalKeys{
			Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
			Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "show key maps")),
			ToggleFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle focus")),
			Execute:     key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "execute query")),
		},
		Help: HelpKeys{
			Close:      key.NewBinding(key.WithKeys("q", "esc", "?"), key.WithHelp("q/esc/?", "close")),
			ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "scroll up")),
			ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "scroll down")),
		},
		Table: TableKeys{
			PreviousTab:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous tab")),
			NextTab:         key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
			NextRow:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next row")),
			PreviousRow:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous row")),
			NextPage:        key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn/space", "next page")),
			PreviousPage:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "previous page")),
			FirstRow:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "first row")),
			LastRow:         key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last row")),
			ScrollRight:     key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "scroll right")),
			ScrollLeft:      key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "scroll left")),
			NextColumn:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next column")),
			PreviousColumn:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous column")),
			WidenColumn:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "widen column")),
			NarrowColumn:    key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "narrow column")),
			NextColor:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next color")),
			PreviousColor:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous color")),
			CopyCell:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
			CopyRow:         key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row as JSON")),
			CopyQuery:       key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "copy query to editor")),
			RunHistoryQuery: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "run history query")),
			SetTab: key.NewBinding(
				key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
				key.WithHelp("1-9", "select tab"),
			),
		},
		Sidebar: SidebarKeys{
			Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "expand/collapse")),
			Left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "collapse / parent")),
			Right:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "expand / child")),
			Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
			Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
			Deselect:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect")),
			First:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
			Last:       key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
			ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
			ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		},
		Editor: editorBindings(),
	}
}

// editorBindings documents the modal editor. Resolution itself is done by
// the mode state machine, not by matching these.
func editorBindings() []key.Binding {
	b := func(keys, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
	}
	return []key.Binding{
		b("h/j/k/l", "move cursor"),
		b("w/e/b", "word forward / end / back"),
		b("^/$", "line head / end"),
		b("gg/G", "top / bottom"),
		b("i/a/I/A", "insert before / after / head / end"),
		b("o/O", "open line below / above"),
		b("v/V", "visual selection"),
		b("y/d/c+motion", "yank / delete / change"),
		b("yy/dd/cc", "whole line"),
		b("x", "delete char"),
		b("D/C", "delete / change to end of line"),
		b("p", "paste"),
		b("u/ctrl+r", "undo / redo"),
		b("ctrl+e/ctrl+y", "scroll line"),
		b("ctrl+d/ctrl+u", "half page down / up"),
		b("ctrl+f/ctrl+b", "page down / up"),
		b("esc/ctrl+c", "back to normal"),
	}
}

// Section is one titled group of the help table.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Sections returns the human-readable binding table grouped by category.
func (km KeyMap) Sections() []Section {
	t := km.Table
	s := km.Sidebar
	return []Section{
		{Title: "Global", Bindings: []key.Binding{
			km.Global.Quit, km.Global.Help, km.Global.ToggleFocus, km.Global.Execute,
		}},
		{Title: "Editor", Bindings: km.Editor},
		{Title: "Data Table", Bindings: []key.Binding{
			t.PreviousTab, t.NextTab, t.NextRow, t.PreviousRow, t.NextPage, t.PreviousPage,
			t.FirstRow, t.LastRow, t.ScrollRight, t.ScrollLeft, t.NextColumn, t.PreviousColumn,
			t.WidenColumn, t.NarrowColumn, t.NextColor, t.PreviousColor, t.CopyCell, t.CopyRow,
			t.CopyQuery, t.RunHistoryQuery, t.SetTab,
		}},
		{Title: "Sidebar", Bindings: []key.Binding{
			s.Toggle, s.Left, s.Right, s.Down, s.Up, s.Deselect, s.First, s.Last, s.ScrollDown, s.ScrollUp,
		}},
	}
}
