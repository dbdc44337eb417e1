package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/lazydata/internal/command"
	"github.com/nhath/lazydata/internal/keymap"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	bodyHeight := max(6, m.height-statusBarLines)
	sideWidth := min(sidebarWidth, m.width/3)
	mainWidth := m.width - sideWidth
	editorHeight := max(3, bodyHeight*editorPercent/100)
	tableHeight := bodyHeight - editorHeight

	side := m.panel(keymap.FocusSidebar, "Tables", sideWidth, bodyHeight, func(w, h int) string {
		return m.sidebar.View(w, h)
	})
	edit := m.panel(keymap.FocusEditor, "Query "+modeLabel(m.resolver.Mode()), mainWidth, editorHeight, func(w, h int) string {
		return m.editor.View(w, h, m.focus == keymap.FocusEditor)
	})
	results := m.panel(keymap.FocusTable, "Results", mainWidth, tableHeight, func(w, h int) string {
		return m.table.View(w, h, m.spinner.View())
	})

	body := lipgloss.JoinHorizontal(lipgloss.Top, side, lipgloss.JoinVertical(lipgloss.Left, edit, results))
	view := lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpPopup(view)
	}
	return view
}

// panel draws a bordered box with a title line. render gets the inner
// size left after the border and the title.
func (m Model) panel(f keymap.Focus, title string, width, height int, render func(w, h int) string) string {
	style, titleStyle := PanelStyle, TitleStyle
	if m.focus == f {
		style, titleStyle = FocusedPanelStyle, FocusedTitleStyle
	}
	innerW := max(1, width-2)
	innerH := max(1, height-3)
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), render(innerW, innerH))
	return style.Width(innerW).Height(innerH + 1).MaxHeight(height).Render(content)
}

// modeLabel is the short mode indicator shown in the editor title.
func modeLabel(mode command.Mode) string {
	switch mode.Kind {
	case command.Insert:
		return "[INSERT]"
	case command.Visual:
		return "[VISUAL]"
	case command.OperatorPending:
		return "[OP " + string(rune(mode.Op)) + "]"
	}
	return "[NORMAL]"
}
