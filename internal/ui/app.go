// internal/ui/app.go
package ui

import (
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/lazydata/internal/command"
	"github.com/nhath/lazydata/internal/keymap"
	"github.com/nhath/lazydata/internal/query"
	"github.com/nhath/lazydata/internal/resulttable"
	"github.com/nhath/lazydata/internal/sidebar"
)

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeHelp()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(keymap.FromTea(msg))

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case queryFinishedMsg:
		if msg.Err != nil {
			log.Printf("query failed: %v", msg.Err)
			m.table.SetError(msg.Err.Error())
		} else {
			m.table.FinishLoading(msg.Result)
			// row counts in the sidebar are stale after a write
			if _, ok := msg.Result.(query.Affected); ok && m.session != nil {
				m.sidebar.InvalidateMetadata(m.session.Database())
			}
		}
		m.table.SetHistory(m.state.History(m.connection))
		return m, nil

	case tablesLoadedMsg:
		m.loadingSchema--
		if msg.Err != nil {
			log.Printf("fetch tables of %s: %v", msg.Database, msg.Err)
			m.statusErr = msg.Err.Error()
			m.sidebar.LoadFailed("db_" + msg.Database)
			return m, nil
		}
		m.statusErr = ""
		m.sidebar.SetTables(msg.Database, msg.Tables)
		return m, nil

	case metadataLoadedMsg:
		m.loadingSchema--
		if msg.Err != nil {
			log.Printf("fetch metadata of %s/%s: %v", msg.Database, msg.Table, msg.Err)
			m.statusErr = msg.Err.Error()
			m.sidebar.LoadFailed("tbl_" + msg.Database + "_" + msg.Table)
			return m, nil
		}
		m.statusErr = ""
		m.sidebar.SetMetadata(msg.Database, msg.Table, msg.Metadata)
		return m, nil
	}
	return m, nil
}

// handleKey resolves one key event and routes the resulting command.
func (m Model) handleKey(ev keymap.KeyEvent) (tea.Model, tea.Cmd) {
	var (
		cmd command.Command
		ok  bool
	)
	if m.showHelp {
		cmd, ok = m.resolver.ResolveHelp(ev)
	} else {
		cmd, ok = m.resolver.Resolve(ev, m.focus, m.table.Tabs.Index)
	}
	if !ok {
		return m, nil
	}
	return m.dispatch(cmd)
}

// dispatch is the command router. It holds no resolution logic: global
// commands are handled here, commands spanning two components are
// composed here, and everything else goes to its owner.
func (m Model) dispatch(cmd command.Command) (Model, tea.Cmd) {
	// the resolver owns the mode; the editor follows it
	m.editor.SetMode(m.resolver.Mode())

	switch cmd.Kind {
	case command.NoOp:
		return m, nil
	case command.Quit:
		return m, tea.Quit
	case command.ToggleFocus:
		m.focus = m.focus.Next()
		return m, nil
	case command.ShowHelp:
		m.showHelp = true
		m.resizeHelp()
		m.help.SetContent(m.helpContent())
		m.help.GotoTop()
		return m, nil
	case command.CloseHelp:
		m.showHelp = false
		return m, nil
	case command.HelpScrollUp:
		m.help.ScrollUp(1)
		return m, nil
	case command.HelpScrollDown:
		m.help.ScrollDown(1)
		return m, nil
	case command.ExecuteQuery:
		return m.executeQuery(m.editor.Query())
	case command.TableCopyQueryToEditor:
		if q, ok := m.table.CopyQueryToEditor(); ok {
			m.editor.SetContent(q)
			m.table.WriteClipboard(q, "Copied query to editor")
		}
		return m, nil
	case command.TableRunSelectedHistoryQuery:
		if q, ok := m.table.SelectedHistoryQuery(); ok {
			m.editor.SetContent(q)
			return m.executeQuery(q)
		}
		return m, nil
	}

	switch cmd.Kind.Category() {
	case command.CategoryEditor:
		m.editor.Apply(cmd)
	case command.CategoryTable:
		m.table.Apply(cmd)
	case command.CategorySidebar:
		if node, load := m.sidebar.Apply(cmd); load {
			if fetch := m.loadNode(node); fetch != nil {
				m.loadingSchema++
				return m, tea.Batch(m.spinner.Tick, fetch)
			}
		}
	}
	return m, nil
}

// executeQuery starts the pipeline for sql. An empty query, or one issued
// while another is running, does nothing.
func (m Model) executeQuery(sql string) (Model, tea.Cmd) {
	if sql == "" || m.session == nil || m.table.State() == resulttable.Loading {
		return m, nil
	}
	m.table.StartLoading(sql)
	return m, tea.Batch(m.spinner.Tick, m.executeQueryCmd(sql))
}

// loadNode fetches the children of a freshly expanded sidebar node.
func (m Model) loadNode(n *sidebar.TreeNode) tea.Cmd {
	if m.session == nil {
		return nil
	}
	switch n.Kind {
	case sidebar.KindDatabase:
		return m.fetchTablesCmd(n.Database)
	case sidebar.KindTable:
		return m.fetchMetadataCmd(n.Database, n.Table)
	}
	return nil
}
