package sidebar

import (
	"github.com/nhath/lazydata/internal/command"
	"github.com/nhath/lazydata/internal/db"
)

// Model is the schema tree plus its selection and scroll state.
type Model struct {
	root *TreeNode
	// cursor indexes Flatten(); -1 means nothing is selected.
	cursor int
	offset int
	height int
	cache  *MetadataCache
}

func New() *Model {
	root := newNode("root", KindRoot, "Databases")
	root.Expanded = true
	root.Loaded = true
	return &Model{root: root, cursor: -1, height: 20, cache: NewMetadataCache()}
}

func (m *Model) Cache() *MetadataCache { return m.cache }

func (m *Model) Root() *TreeNode { return m.root }

func (m *Model) Offset() int { return m.offset }

func (m *Model) visible() []*TreeNode { return m.root.Flatten() }

// SetDatabases replaces the top level of the tree.
func (m *Model) SetDatabases(names []string) {
	m.root.SetChildren(buildDatabaseNodes(names))
	m.cursor = -1
	m.offset = 0
}

// SetTables fills a database node with its tables.
func (m *Model) SetTables(database string, tables []string) {
	n := m.root.FindByID(databaseID(database))
	if n == nil {
		return
	}
	n.SetChildren([]*TreeNode{buildTablesGroup(database, tables)})
	m.clampCursor()
}

// SetMetadata caches meta and expands it under its table node.
func (m *Model) SetMetadata(database, table string, meta *db.TableMetadata) {
	m.cache.Put(database, table, meta)
	if n := m.root.FindByID(tableID(database, table)); n != nil {
		applyMetadata(n, meta)
	}
	m.clampCursor()
}

// InvalidateMetadata forgets the metadata of every table in database. Their
// nodes collapse and fetch again on the next expand.
func (m *Model) InvalidateMetadata(database string) {
	m.cache.Invalidate(database)
	dbNode := m.root.FindByID(databaseID(database))
	if dbNode == nil {
		return
	}
	for _, group := range dbNode.Children {
		for _, t := range group.Children {
			if t.Kind != KindTable || !t.Loaded {
				continue
			}
			t.Label = t.Table
			t.Children = nil
			t.Loaded = false
			t.Expanded = false
		}
	}
	m.clampCursor()
}

// LoadFailed collapses the node with id so expanding it retries the fetch.
func (m *Model) LoadFailed(id string) {
	if n := m.root.FindByID(id); n != nil && !n.Loaded {
		n.Expanded = false
	}
	m.clampCursor()
}

// Selected returns the node under the cursor.
func (m *Model) Selected() (*TreeNode, bool) {
	nodes := m.visible()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return nil, false
	}
	return nodes[m.cursor], true
}

// SetHeight sets the number of rows the tree is drawn in.
func (m *Model) SetHeight(h int) {
	m.height = max(1, h)
	m.follow()
}

// Apply runs one sidebar command. When the command expands a node whose
// children are not loaded yet, that node is returned so the caller can
// fetch them.
func (m *Model) Apply(cmd command.Command) (*TreeNode, bool) {
	switch cmd.Kind {
	case command.SidebarToggleSelected:
		return m.ToggleSelected()
	case command.SidebarKeyRight:
		return m.KeyRight()
	case command.SidebarKeyLeft:
		m.KeyLeft()
	case command.SidebarKeyUp:
		m.KeyUp()
	case command.SidebarKeyDown:
		m.KeyDown()
	case command.SidebarDeselect:
		m.Deselect()
	case command.SidebarSelectFirst:
		m.SelectFirst()
	case command.SidebarSelectLast:
		m.SelectLast()
	case command.SidebarScrollDown:
		m.ScrollDown(cmd.Amount)
	case command.SidebarScrollUp:
		m.ScrollUp(cmd.Amount)
	}
	return nil, false
}

// ToggleSelected expands or collapses the selected node.
func (m *Model) ToggleSelected() (*TreeNode, bool) {
	n, ok := m.Selected()
	if !ok || !n.Expandable() {
		return nil, false
	}
	if n.Expanded {
		n.Expanded = false
		m.clampCursor()
		return nil, false
	}
	return m.expand(n)
}

func (m *Model) expand(n *TreeNode) (*TreeNode, bool) {
	n.Expanded = true
	if n.Kind == KindTable && !n.Loaded {
		if meta, ok := m.cache.Get(n.Database, n.Table); ok {
			applyMetadata(n, meta)
		}
	}
	if n.NeedsLoad() {
		return n, true
	}
	return nil, false
}

// KeyRight expands the selected node, or moves to its first child when it
// is already open.
func (m *Model) KeyRight() (*TreeNode, bool) {
	n, ok := m.Selected()
	if !ok {
		return nil, false
	}
	if n.Expanded {
		if len(n.Children) > 0 {
			m.cursor++
			m.follow()
		}
		return nil, false
	}
	if !n.Expandable() {
		return nil, false
	}
	return m.expand(n)
}

// KeyLeft collapses the selected node, or moves to its parent.
func (m *Model) KeyLeft() {
	n, ok := m.Selected()
	if !ok {
		return
	}
	if n.Expanded {
		n.Expanded = false
		return
	}
	if n.Parent == nil || n.Parent == m.root {
		return
	}
	for i, v := range m.visible() {
		if v == n.Parent {
			m.cursor = i
			break
		}
	}
	m.follow()
}

// KeyDown selects the next node; with nothing selected it selects the
// first.
func (m *Model) KeyDown() {
	n := len(m.visible())
	if n == 0 {
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	} else if m.cursor < n-1 {
		m.cursor++
	}
	m.follow()
}

// KeyUp selects the previous node; with nothing selected it selects the
// last.
func (m *Model) KeyUp() {
	n := len(m.visible())
	if n == 0 {
		return
	}
	if m.cursor < 0 {
		m.cursor = n - 1
	} else if m.cursor > 0 {
		m.cursor--
	}
	m.follow()
}

func (m *Model) Deselect() { m.cursor = -1 }

func (m *Model) SelectFirst() {
	if len(m.visible()) > 0 {
		m.cursor = 0
		m.follow()
	}
}

func (m *Model) SelectLast() {
	if n := len(m.visible()); n > 0 {
		m.cursor = n - 1
		m.follow()
	}
}

// ScrollDown moves the viewport without touching the selection.
func (m *Model) ScrollDown(n int) {
	m.offset = min(m.offset+n, m.maxOffset())
}

func (m *Model) ScrollUp(n int) {
	m.offset = max(0, m.offset-n)
}

func (m *Model) maxOffset() int {
	return max(0, len(m.visible())-m.height)
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	m.offset = min(m.offset, m.maxOffset())
	m.follow()
}

// follow scrolls so the selected node is on screen.
func (m *Model) follow() {
	if m.cursor < 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}
