// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/lazydata/internal/appstate"
	"github.com/nhath/lazydata/internal/config"
	"github.com/nhath/lazydata/internal/db"
	"github.com/nhath/lazydata/internal/editor"
	"github.com/nhath/lazydata/internal/keymap"
	"github.com/nhath/lazydata/internal/query"
	"github.com/nhath/lazydata/internal/resulttable"
	"github.com/nhath/lazydata/internal/sidebar"
)

const (
	sidebarWidth   = 30
	editorPercent  = 40
	statusBarLines = 1
)

// Options is everything the root model needs from startup.
type Options struct {
	Config     *config.Config
	Connection string
	Driver     db.Driver
	Databases  []string
	State      *appstate.State
	Clipboard  resulttable.Clipboard
	KeyMap     *keymap.KeyMap
}

// Model is the root Bubble Tea model. Key events go through the resolver,
// and the resulting command is routed by dispatch.
type Model struct {
	width, height int
	focus         keymap.Focus

	resolver *keymap.Resolver
	editor   *editor.Editor
	table    *resulttable.Model
	sidebar  *sidebar.Model

	pipeline   *query.Pipeline
	state      *appstate.State
	session    *session
	connection string
	dbType     db.DriverType

	spinner       spinner.Model
	loadingSchema int
	statusErr     string

	showHelp bool
	help     viewport.Model
}

// NewModel creates the root model over a connected driver
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	InitStyles(cfg.Theme)

	state := opts.State
	if state == nil {
		state = appstate.New(nil)
	}

	km := keymap.DefaultKeyMap()
	if opts.KeyMap != nil {
		km = *opts.KeyMap
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	m := Model{
		focus:      keymap.FocusSidebar,
		resolver:   keymap.NewResolver(km),
		editor:     editor.New(cfg.EditorStyle, opts.Clipboard),
		table:      resulttable.New(opts.Clipboard),
		sidebar:    sidebar.New(),
		pipeline:   query.NewPipeline(state),
		state:      state,
		connection: opts.Connection,
		spinner:    sp,
		help:       viewport.New(0, 0),
	}
	if opts.Driver != nil {
		m.session = newSession(opts.Driver)
		m.dbType = opts.Driver.Type()
	}
	m.sidebar.SetDatabases(opts.Databases)
	m.table.SetHistory(state.History(m.connection))
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("lazydata - " + m.connection)
}

// Focus reports which panel owns the keyboard.
func (m Model) Focus() keymap.Focus { return m.focus }

// busy reports whether something is running that the spinner reflects.
func (m Model) busy() bool {
	return m.table.State() == resulttable.Loading || m.loadingSchema > 0
}
