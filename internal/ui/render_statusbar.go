package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nhath/lazydata/internal/command"
	"github.com/nhath/lazydata/internal/keymap"
)

func (m Model) modeStyle() lipgloss.Style {
	switch m.resolver.Mode().Kind {
	case command.Insert:
		return InsertModeStyle
	case command.Visual:
		return VisualModeStyle
	case command.OperatorPending:
		return PendingModeStyle
	}
	return ModeStyle
}

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Mode
	parts = append(parts, m.modeStyle().Render(m.resolver.Mode().String()))

	// 2. Connection
	conn := fmt.Sprintf("%s %s", databaseIcon(m.dbType), m.connection)
	if m.session != nil {
		conn += " / " + m.session.Database()
	}
	parts = append(parts, ConnectionStyle.Render(conn))

	// 3. What the editor expects next
	if m.focus == keymap.FocusEditor {
		parts = append(parts, HintStyle.Render(m.resolver.Mode().Hint()))
	}

	// 4. Schema loading
	if m.loadingSchema > 0 {
		parts = append(parts, HintStyle.Render(m.spinner.View()+" Loading schema..."))
	}

	// 5. Error from the sidebar loaders
	if m.statusErr != "" {
		parts = append(parts, ErrorStyle.Render("⚠ "+runewidth.Truncate(m.statusErr, 40, "...")))
	}

	// 6. Key hints
	parts = append(parts, HintStyle.Render("q: Quit  F5: Execute Query  ?: Key Maps  tab: Focus "+m.focus.String()))

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).MaxHeight(statusBarLines).Render(content)
}
