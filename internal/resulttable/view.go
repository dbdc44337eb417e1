package resulttable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"
	"github.com/mattn/go-runewidth"
	"github.com/nhath/lazydata/internal/db"
)

const rowNumberWidth = 5

var (
	faint      = lipgloss.NewStyle().Faint(true)
	activeTab  = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	tabStyle   = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#BF616A")).Bold(true)
)

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// fit truncates or pads s to exactly w display cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
	if displayWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

// StatusLine summarises the current result or lifecycle state.
func (m *Model) StatusLine(spinner string) string {
	switch m.state {
	case Loading:
		return "Loading… " + spinner
	case Failed:
		return m.errMsg
	}
	return fmt.Sprintf("Total Rows: %d | Query Complete: %d ms | Page: %d/%d",
		len(m.rows), m.elapsed.Milliseconds(), m.page+1, m.TotalPages())
}

// View renders the tab bar, the active tab and the status line into a
// width x height block.
func (m *Model) View(width, height int, spinner string) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	bodyHeight := max(height-2, 1)

	var body string
	switch m.Tabs.Index {
	case TabData:
		body = m.dataView(width, bodyHeight, spinner)
	case TabMessages:
		body = m.messagesView(width, bodyHeight)
	case TabHistory:
		body = m.historyView(width, bodyHeight)
	}
	body = lipgloss.NewStyle().Width(width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.tabBar(width),
		body,
		faint.Render(fit(m.StatusLine(spinner), width)),
	)
}

func (m *Model) tabBar(width int) string {
	parts := make([]string, len(m.Tabs.Titles))
	for i, t := range m.Tabs.Titles {
		if i == m.Tabs.Index {
			parts[i] = activeTab.Render(t)
		} else {
			parts[i] = tabStyle.Render(t)
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, "│"))
}

func (m *Model) messagesView(width, height int) string {
	text := m.message
	if m.state == Failed {
		text = errorStyle.Render(text)
	}
	return lipgloss.NewStyle().Width(width).MaxHeight(height).Render(text)
}

func (m *Model) dataView(width, height int, spinner string) string {
	center := func(s string) string {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
	}
	switch {
	case m.state == Loading:
		return center("Loading data... " + spinner)
	case m.state == Failed:
		return center(errorStyle.Render("Error loading data: " + m.errMsg))
	case m.Empty():
		return center(faint.Render("No data output. Execute a query to get output"))
	}

	p := m.Palette()

	// columns that fit, starting at the scroll offset
	var cols []int
	used := rowNumberWidth
	for c := m.hscroll; c < len(m.widths); c++ {
		if used+m.widths[c] > width && len(cols) > 0 {
			break
		}
		cols = append(cols, c)
		used += m.widths[c]
	}

	var b strings.Builder
	header := fit("#", rowNumberWidth)
	for _, c := range cols {
		header += fit(m.headers[c], m.widths[c])
	}
	b.WriteString(p.header().Render(fit(header, min(used, width))))

	rows := m.pageRows()
	visible := max(height-1, 1)
	offset := max(m.selectedRow-visible+1, 0)
	for i := offset; i < len(rows) && i < offset+visible; i++ {
		b.WriteByte('\n')
		b.WriteString(m.renderRow(p, rows, i, cols))
	}
	return b.String()
}

func (m *Model) renderRow(p Palette, rows [][]db.CellValue, i int, cols []int) string {
	selected := i == m.selectedRow
	style := func(displayCol int) lipgloss.Style {
		switch {
		case selected && displayCol == m.selectedCol:
			return p.selectedCell()
		case selected:
			return p.selectedRow()
		case displayCol == m.selectedCol:
			return p.selectedColumn()
		}
		return p.row()
	}

	var b strings.Builder
	num := strconv.Itoa(m.page*PageSize + i + 1)
	b.WriteString(style(0).Render(fit(num, rowNumberWidth)))
	for n, c := range cols {
		text := ""
		if c < len(rows[i]) {
			text = rows[i][c].Display()
		}
		b.WriteString(style(n + 1).Render(fit(text, m.widths[c])))
	}
	return b.String()
}

// historyView lists history newest first in a bubble-table, windowed so the
// selected entry stays visible.
func (m *Model) historyView(width, height int) string {
	if len(m.history) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			faint.Render("No queries run yet"))
	}

	const (
		colQuery  = "query"
		colTime   = "timestamp"
		colStatus = "status"
		colRows   = "rows"
		colMs     = "ms"
	)
	p := m.Palette()
	cols := []bbtable.Column{
		bbtable.NewFlexColumn(colQuery, "Query", 5),
		bbtable.NewFlexColumn(colTime, "Timestamp", 2),
		bbtable.NewColumn(colStatus, "Status", 8),
		bbtable.NewColumn(colRows, "Rows", 8),
		bbtable.NewColumn(colMs, "Time (ms)", 10),
	}

	// borders and header take four lines
	visible := max(height-4, 1)
	start := max(m.historyRow-visible+1, 0)
	end := min(start+visible, len(m.history))

	queryWidth := max(width*5/7-20, 10)
	var rows []bbtable.Row
	for _, e := range m.history[start:end] {
		status := bbtable.NewStyledCell("OK", lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C")))
		if !e.Success {
			status = bbtable.NewStyledCell("Error", errorStyle)
		}
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			colQuery:  e.QueryPreview(queryWidth),
			colTime:   e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			colStatus: status,
			colRows:   strconv.FormatUint(e.RowsAffected, 10),
			colMs:     strconv.FormatInt(e.ExecutionTime.Milliseconds(), 10),
		}))
	}

	t := bbtable.New(cols).
		WithRows(rows).
		WithTargetWidth(width).
		WithNoPagination().
		HeaderStyle(p.header()).
		WithBaseStyle(p.row()).
		HighlightStyle(p.selectedRow()).
		BorderRounded()
	if m.historyRow >= 0 {
		t = t.Focused(true).WithHighlightedRow(m.historyRow - start)
	}
	return t.View()
}
