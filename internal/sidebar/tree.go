// Package sidebar is the schema browser: databases, their tables and the
// metadata of each table, loaded lazily as nodes are expanded.
package sidebar

import (
	"fmt"

	"github.com/nhath/lazydata/internal/db"
)

// NodeKind is the level a node sits at in the schema tree.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindDatabase
	KindTables
	KindTable
	KindCategory
	KindItem
)

// TreeNode is one row of the schema tree.
type TreeNode struct {
	ID       string
	Kind     NodeKind
	Label    string
	Database string
	Table    string
	Parent   *TreeNode
	Children []*TreeNode
	Expanded bool
	// Loaded is set once the children came back from the backend.
	Loaded bool
}

func newNode(id string, kind NodeKind, label string) *TreeNode {
	return &TreeNode{ID: id, Kind: kind, Label: label}
}

// AddChild appends child and links it back to n.
func (n *TreeNode) AddChild(child *TreeNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// SetChildren replaces the children and marks n as loaded.
func (n *TreeNode) SetChildren(children []*TreeNode) {
	n.Children = make([]*TreeNode, 0, len(children))
	for _, c := range children {
		n.AddChild(c)
	}
	n.Loaded = true
}

// Expandable reports whether n has, or may lazily get, children.
func (n *TreeNode) Expandable() bool {
	switch n.Kind {
	case KindDatabase, KindTable:
		return !n.Loaded || len(n.Children) > 0
	case KindItem:
		return false
	}
	return len(n.Children) > 0
}

// NeedsLoad reports whether expanding n must fetch from the backend.
func (n *TreeNode) NeedsLoad() bool {
	return n.Expanded && !n.Loaded && (n.Kind == KindDatabase || n.Kind == KindTable)
}

// Depth is 0 for top-level databases.
func (n *TreeNode) Depth() int {
	d := -1
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Flatten lists the visible nodes in display order. The root itself is
// not included.
func (n *TreeNode) Flatten() []*TreeNode {
	var out []*TreeNode
	var walk func(*TreeNode)
	walk = func(node *TreeNode) {
		for _, c := range node.Children {
			out = append(out, c)
			if c.Expanded {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

// FindByID searches depth first.
func (n *TreeNode) FindByID(id string) *TreeNode {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

func databaseID(database string) string { return "db_" + database }

func tablesID(database string) string { return databaseID(database) + "_tables" }

func tableID(database, table string) string {
	return fmt.Sprintf("tbl_%s_%s", database, table)
}

func buildDatabaseNodes(databases []string) []*TreeNode {
	nodes := make([]*TreeNode, 0, len(databases))
	for _, name := range databases {
		n := newNode(databaseID(name), KindDatabase, name)
		n.Database = name
		nodes = append(nodes, n)
	}
	return nodes
}

// buildTablesGroup is the single "Tables" child of a database node.
func buildTablesGroup(database string, tables []string) *TreeNode {
	group := newNode(tablesID(database), KindTables, "Tables")
	group.Database = database
	group.Expanded = true
	children := make([]*TreeNode, 0, len(tables))
	for _, t := range tables {
		n := newNode(tableID(database, t), KindTable, t)
		n.Database = database
		n.Table = t
		children = append(children, n)
	}
	group.SetChildren(children)
	return group
}

func rowLabel(name string, rows int64) string {
	if rows == 1 {
		return fmt.Sprintf("%s (1 row)", name)
	}
	return fmt.Sprintf("%s (%d rows)", name, rows)
}

// categoryNode lists one metadata category. Empty categories are leaves.
func categoryNode(parent *TreeNode, label string, items []string) *TreeNode {
	id := parent.ID + "_" + label
	n := newNode(id, KindCategory, label)
	n.Database, n.Table = parent.Database, parent.Table
	children := make([]*TreeNode, 0, len(items))
	for _, item := range items {
		c := newNode(id+"_"+item, KindItem, item)
		c.Database, c.Table = parent.Database, parent.Table
		children = append(children, c)
	}
	n.SetChildren(children)
	return n
}

// applyMetadata relabels a table node and gives it its category children.
func applyMetadata(n *TreeNode, meta *db.TableMetadata) {
	n.Label = rowLabel(n.Table, meta.RowCount)

	columns := newNode(n.ID+"_columns", KindCategory, "Columns")
	columns.Database, columns.Table = n.Database, n.Table
	cols := make([]*TreeNode, 0, len(meta.Columns))
	for _, c := range meta.Columns {
		item := newNode(n.ID+"_col_"+c.Name, KindItem, c.String())
		item.Database, item.Table = n.Database, n.Table
		cols = append(cols, item)
	}
	columns.SetChildren(cols)

	n.SetChildren([]*TreeNode{
		columns,
		categoryNode(n, "Constraints", meta.Constraints),
		categoryNode(n, "Indexes", meta.Indexes),
		categoryNode(n, "RLS Policies", meta.Policies),
		categoryNode(n, "Rules", meta.Rules),
		categoryNode(n, "Triggers", meta.Triggers),
	})
}
