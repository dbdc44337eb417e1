package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

const helpWidth = 64

// helpContent is the key binding table, one section per category.
func (m Model) helpContent() string {
	var content strings.Builder
	for _, section := range m.resolver.KeyMap().Sections() {
		content.WriteString(HelpHeaderStyle.Render(section.Title))
		content.WriteString("\n")
		for _, b := range section.Bindings {
			h := b.Help()
			content.WriteString(fmt.Sprintf("  %s %s\n", HelpKeyStyle.Render(h.Key), HelpDescStyle.Render(h.Desc)))
		}
		content.WriteString("\n")
	}
	return strings.TrimRight(content.String(), "\n")
}

func (m *Model) resizeHelp() {
	m.help.Width = min(helpWidth, max(10, m.width-8))
	m.help.Height = max(3, m.height-10)
}

func (m Model) renderHelpPopup(main string) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Key Maps")
	footer := lipgloss.NewStyle().Faint(true).Render("j/k to scroll, q or esc to close")
	body := lipgloss.JoinVertical(lipgloss.Left, title, "", m.help.View(), "", footer)

	popupBox := PopupStyle.Render(body)
	return overlay.Composite(popupBox, main, overlay.Center, overlay.Center, 0, 0)
}
