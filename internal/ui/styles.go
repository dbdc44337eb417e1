// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/lazydata/internal/config"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color

	// Styles
	StatusBarStyle    lipgloss.Style
	ModeStyle         lipgloss.Style
	InsertModeStyle   lipgloss.Style
	VisualModeStyle   lipgloss.Style
	PendingModeStyle  lipgloss.Style
	ConnectionStyle   lipgloss.Style
	HintStyle         lipgloss.Style
	ErrorStyle        lipgloss.Style
	PanelStyle        lipgloss.Style
	FocusedPanelStyle lipgloss.Style
	TitleStyle        lipgloss.Style
	FocusedTitleStyle lipgloss.Style
	PopupStyle        lipgloss.Style
	HelpHeaderStyle   lipgloss.Style
	HelpKeyStyle      lipgloss.Style
	HelpDescStyle     lipgloss.Style
)

// InitStyles initializes the global styles from the configured theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	InsertModeStyle = ModeStyle.Background(accentColor)
	VisualModeStyle = ModeStyle.Background(highlightColor)
	PendingModeStyle = ModeStyle.Background(warningColor)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(bgPrimary).
		Foreground(textPrimary)

	HintStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(bgSecondary).
		Foreground(textSecondary)

	ErrorStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(errorColor).
		Foreground(textPrimary)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(textFaint)

	FocusedPanelStyle = PanelStyle.BorderForeground(accentColor)

	TitleStyle = lipgloss.NewStyle().
		Foreground(textSecondary)

	FocusedTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Background(bgPrimary).
		Padding(1, 2)

	HelpHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(highlightColor)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(successColor).
		Width(16)

	HelpDescStyle = lipgloss.NewStyle().
		Foreground(textSecondary)
}
