// Package keymap turns physical key events into commands. Resolution is a
// pure function of the event, the focused panel, the active result tab and
// the resolver state (editor mode plus at most one pending key).
package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/nhath/lazydata/internal/command"
)

// HistoryTab is the result-table tab whose rows are history entries.
const HistoryTab = 2

// State is the resolver's own state, threaded through every call.
type State struct {
	Mode command.Mode
	// Pending is the buffered first key of a two-key sequence ("g", "y",
	// "d" or "c"), or empty.
	Pending string
}

// Resolve maps ev to at most one command and returns the next state.
func Resolve(km KeyMap, s State, ev KeyEvent, focus Focus, tab int) (State, command.Command, bool) {
	if ev.Kind != Press {
		return s, command.Command{}, false
	}

	if c, ok := resolveGlobal(km.Global, s, ev, focus); ok {
		s.Pending = ""
		if s.Mode.Kind == command.OperatorPending {
			s.Mode = command.NormalMode
		}
		return s, c, true
	}

	switch focus {
	case FocusEditor:
		return resolveEditor(s, ev)
	case FocusTable:
		c, ok := resolveTable(km.Table, ev, tab)
		return s, c, ok
	default:
		c, ok := resolveSidebar(km.Sidebar, ev)
		return s, c, ok
	}
}

// ResolveHelp maps ev while the help overlay is open.
func ResolveHelp(km HelpKeys, ev KeyEvent) (command.Command, bool) {
	if ev.Kind != Press {
		return command.Command{}, false
	}
	switch {
	case key.Matches(ev, km.Close):
		return command.New(command.CloseHelp), true
	case key.Matches(ev, km.ScrollUp):
		return command.New(command.HelpScrollUp), true
	case key.Matches(ev, km.ScrollDown):
		return command.New(command.HelpScrollDown), true
	}
	return command.Command{}, false
}

func resolveGlobal(g GlobalKeys, s State, ev KeyEvent, focus Focus) (command.Command, bool) {
	// q and ? are text in Insert mode; tab and f5 stay global
	typing := focus == FocusEditor && s.Mode.Kind == command.Insert

	switch {
	case key.Matches(ev, g.ToggleFocus):
		return command.New(command.ToggleFocus), true
	case key.Matches(ev, g.Execute):
		return command.New(command.ExecuteQuery), true
	case !typing && key.Matches(ev, g.Quit):
		return command.New(command.Quit), true
	case !typing && key.Matches(ev, g.Help):
		return command.New(command.ShowHelp), true
	}
	return command.Command{}, false
}

func resolveTable(t TableKeys, ev KeyEvent, tab int) (command.Command, bool) {
	history := tab == HistoryTab
	switch {
	case key.Matches(ev, t.PreviousTab):
		return command.New(command.TablePreviousTab), true
	case key.Matches(ev, t.NextTab):
		return command.New(command.TableNextTab), true
	case key.Matches(ev, t.NextRow):
		if history {
			return command.New(command.TableNextHistoryRow), true
		}
		return command.New(command.TableNextRow), true
	case key.Matches(ev, t.PreviousRow):
		if history {
			return command.New(command.TablePreviousHistoryRow), true
		}
		return command.New(command.TablePreviousRow), true
	case key.Matches(ev, t.NextPage):
		return command.New(command.TableNextPage), true
	case key.Matches(ev, t.PreviousPage):
		return command.New(command.TablePreviousPage), true
	case key.Matches(ev, t.FirstRow):
		return command.New(command.TableJumpToFirstRow), true
	case key.Matches(ev, t.LastRow):
		return command.New(command.TableJumpToLastRow), true
	case key.Matches(ev, t.ScrollRight):
		return command.New(command.TableScrollRight), true
	case key.Matches(ev, t.ScrollLeft):
		return command.New(command.TableScrollLeft), true
	case key.Matches(ev, t.NextColumn):
		return command.New(command.TableNextColumn), true
	case key.Matches(ev, t.PreviousColumn):
		return command.New(command.TablePreviousColumn), true
	case key.Matches(ev, t.WidenColumn):
		return command.New(command.TableColumnWidthIncrease), true
	case key.Matches(ev, t.NarrowColumn):
		return command.New(command.TableColumnWidthDecrease), true
	case key.Matches(ev, t.NextColor):
		return command.New(command.TableNextColor), true
	case key.Matches(ev, t.PreviousColor):
		return command.New(command.TablePreviousColor), true
	case key.Matches(ev, t.CopyCell):
		return command.New(command.TableCopySelectedCell), true
	case key.Matches(ev, t.CopyRow):
		return command.New(command.TableCopySelectedRow), true
	case key.Matches(ev, t.CopyQuery):
		return command.New(command.TableCopyQueryToEditor), true
	case key.Matches(ev, t.RunHistoryQuery):
		return command.New(command.TableRunSelectedHistoryQuery), true
	case key.Matches(ev, t.SetTab):
		r, _ := ev.Rune()
		return command.SetTabIndex(int(r-'0') - 1), true
	}
	return command.Command{}, false
}

func resolveSidebar(s SidebarKeys, ev KeyEvent) (command.Command, bool) {
	switch {
	case key.Matches(ev, s.Toggle):
		return command.New(command.SidebarToggleSelected), true
	case key.Matches(ev, s.Left):
		return command.New(command.SidebarKeyLeft), true
	case key.Matches(ev, s.Right):
		return command.New(command.SidebarKeyRight), true
	case key.Matches(ev, s.Down):
		return command.New(command.SidebarKeyDown), true
	case key.Matches(ev, s.Up):
		return command.New(command.SidebarKeyUp), true
	case key.Matches(ev, s.Deselect):
		return command.New(command.SidebarDeselect), true
	case key.Matches(ev, s.First):
		return command.New(command.SidebarSelectFirst), true
	case key.Matches(ev, s.Last):
		return command.New(command.SidebarSelectLast), true
	case key.Matches(ev, s.ScrollDown):
		return command.SidebarScroll(true, 3), true
	case key.Matches(ev, s.ScrollUp):
		return command.SidebarScroll(false, 3), true
	}
	return command.Command{}, false
}

// Resolver holds the state between key events.
type Resolver struct {
	keys  KeyMap
	state State
}

// NewResolver returns a resolver in Normal mode with nothing pending.
func NewResolver(km KeyMap) *Resolver {
	return &Resolver{keys: km, state: State{Mode: command.NormalMode}}
}

// Resolve resolves ev and advances the resolver state.
func (r *Resolver) Resolve(ev KeyEvent, focus Focus, tab int) (command.Command, bool) {
	next, c, ok := Resolve(r.keys, r.state, ev, focus, tab)
	r.state = next
	return c, ok
}

// ResolveHelp resolves ev against the help overlay table.
func (r *Resolver) ResolveHelp(ev KeyEvent) (command.Command, bool) {
	return ResolveHelp(r.keys.Help, ev)
}

func (r *Resolver) State() State { return r.state }

func (r *Resolver) Mode() command.Mode { return r.state.Mode }

func (r *Resolver) KeyMap() KeyMap { return r.keys }
