package sidebar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	nodeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D8DEE9"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#434C5E")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A")).Italic(true)
)

func icon(n *TreeNode) string {
	switch {
	case n.Kind == KindItem || !n.Expandable():
		return "•"
	case n.Expanded:
		return "▾"
	}
	return "▸"
}

// View draws the visible window of the tree.
func (m *Model) View(width, height int) string {
	m.SetHeight(height)
	nodes := m.visible()
	if len(nodes) == 0 {
		return dimStyle.Render(runewidth.Truncate("No databases", width, ""))
	}

	end := min(len(nodes), m.offset+m.height)
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		n := nodes[i]
		text := strings.Repeat("  ", n.Depth()) + icon(n) + " " + n.Label
		if n.Expanded && !n.Loaded {
			text += " …"
		}
		text = runewidth.FillRight(runewidth.Truncate(text, width, "…"), width)
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render(text))
			continue
		}
		lines = append(lines, nodeStyle.Render(text))
	}
	return strings.Join(lines, "\n")
}
