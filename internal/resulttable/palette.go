package resulttable

import "github.com/charmbracelet/lipgloss"

// Palette colors one rendering of the data table.
type Palette struct {
	Name         string
	HeaderBg     lipgloss.Color
	HeaderFg     lipgloss.Color
	RowFg        lipgloss.Color
	SelectedRow  lipgloss.Color
	SelectedCol  lipgloss.Color
	SelectedCell lipgloss.Color
}

const (
	slate200 = lipgloss.Color("#e2e8f0")
)

// tailwind shades 900 / 400 / 600 of each hue
var palettes = [...]Palette{
	{"blue", "#1e3a8a", slate200, slate200, "#60a5fa", "#60a5fa", "#2563eb"},
	{"emerald", "#064e3b", slate200, slate200, "#34d399", "#34d399", "#059669"},
	{"indigo", "#312e81", slate200, slate200, "#818cf8", "#818cf8", "#4f46e5"},
	{"red", "#7f1d1d", slate200, slate200, "#f87171", "#f87171", "#dc2626"},
}

func (p Palette) header() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.HeaderFg).Background(p.HeaderBg).Bold(true)
}

func (p Palette) row() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.RowFg)
}

func (p Palette) selectedRow() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.SelectedRow).Reverse(true)
}

func (p Palette) selectedColumn() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.SelectedCol)
}

func (p Palette) selectedCell() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.SelectedCell).Reverse(true).Bold(true)
}
