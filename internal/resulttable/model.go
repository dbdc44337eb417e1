// Package resulttable is the paginated, column-scrollable view model for
// query results, the messages pane and the query history tab.
package resulttable

import (
	"fmt"
	"log"
	"time"

	"github.com/nhath/lazydata/internal/command"
	"github.com/nhath/lazydata/internal/db"
	"github.com/nhath/lazydata/internal/history"
	"github.com/nhath/lazydata/internal/query"
)

const (
	// PageSize is the number of rows shown per page.
	PageSize = 100
	// sampleRows bounds how many rows feed the column width computation.
	sampleRows = 100
	minWidth   = 3
	widthPad   = 2
)

// Tab indexes.
const (
	TabData = iota
	TabMessages
	TabHistory
)

// LoadState is the query lifecycle as seen by the table.
type LoadState int

const (
	Idle LoadState = iota
	Loading
	Failed
)

// Clipboard receives copied text. atotto/clipboard.WriteAll satisfies it
// through ClipboardFunc.
type Clipboard interface {
	WriteAll(text string) error
}

// ClipboardFunc adapts a function to Clipboard.
type ClipboardFunc func(string) error

func (f ClipboardFunc) WriteAll(text string) error { return f(text) }

// Model holds the current result set and every piece of table UI state.
type Model struct {
	headers   []string
	rows      [][]db.CellValue
	widths    []int
	minWidths []int

	page        int
	selectedRow int // on the current page, -1 when empty
	selectedCol int // 0 is the row-number column
	hscroll     int

	history    []history.Entry // newest first
	historyRow int             // -1 when nothing selected

	Tabs    Tabs
	palette int

	state     LoadState
	errMsg    string
	elapsed   time.Duration
	message   string // Messages tab body
	status    string // last transient status, e.g. "Copied cell to clipboard"
	lastQuery string

	clipboard Clipboard
}

// New returns an empty table that copies through cb. cb may be nil, in
// which case copies only update the return values.
func New(cb Clipboard) *Model {
	m := &Model{
		selectedRow: -1,
		historyRow:  -1,
		Tabs:        NewTabs("Data Output", "Messages", "Query History"),
		clipboard:   cb,
	}
	m.Tabs.SetIndex(TabMessages)
	return m
}

// ComputeWidths returns, per column, the larger of the header width and the
// widest of the first 100 rows' cells, plus padding, floored at 3.
func ComputeWidths(headers []string, rows [][]db.CellValue) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows[:min(len(rows), sampleRows)] {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], displayWidth(row[i].Display()))
			}
		}
	}
	for i := range widths {
		widths[i] = max(widths[i]+widthPad, minWidth)
	}
	return widths
}

// StartLoading moves to Loading and remembers sql as the last query. It is
// valid from any state.
func (m *Model) StartLoading(sql string) {
	m.state = Loading
	m.errMsg = ""
	m.lastQuery = sql
	m.Tabs.SetIndex(TabData)
}

// FinishLoading replaces the result set with res and resets pagination and
// selection. Results without rows switch to the messages tab.
func (m *Model) FinishLoading(res query.Result) {
	m.state = Idle
	m.errMsg = ""
	m.headers, m.rows = nil, nil
	if data, ok := res.(query.Data); ok {
		m.headers, m.rows = data.Headers, data.Values
	}
	m.elapsed = res.Elapsed()
	m.message = res.Summary()
	m.status = fmt.Sprintf("Query complete in %d ms.", res.Elapsed().Milliseconds())

	m.widths = ComputeWidths(m.headers, m.rows)
	m.minWidths = append([]int(nil), m.widths...)

	m.page = 0
	m.hscroll = 0
	m.selectedRow = -1
	m.selectedCol = 0
	if !m.Empty() {
		m.selectedRow = 0
		m.selectedCol = 1
	}

	if m.Empty() {
		m.Tabs.SetIndex(TabMessages)
	} else {
		m.Tabs.SetIndex(TabData)
	}
}

// SetError records a failed query. The previous result set stays.
func (m *Model) SetError(msg string) {
	m.state = Failed
	m.errMsg = msg
	m.message = msg
	m.status = "Error: " + msg
	m.Tabs.SetIndex(TabMessages)
}

// SetHistory replaces the history tab contents. entries are oldest first,
// as stored; the tab shows them newest first.
func (m *Model) SetHistory(entries []history.Entry) {
	m.history = make([]history.Entry, len(entries))
	for i, e := range entries {
		m.history[len(entries)-1-i] = e
	}
	if m.historyRow >= len(m.history) {
		m.historyRow = len(m.history) - 1
	}
}

func (m *Model) State() LoadState { return m.state }
func (m *Model) Err() string { return m.errMsg }
func (m *Model) Message() string { return m.message }
func (m *Model) Status() string { return m.status }
func (m *Model) Headers() []string { return m.headers }
func (m *Model) RowCount() int { return len(m.rows) }
func (m *Model) Elapsed() time.Duration { return m.elapsed }
func (m *Model) Page() int { return m.page }
func (m *Model) SelectedRow() int { return m.selectedRow }
func (m *Model) SelectedColumn() int { return m.selectedCol }
func (m *Model) HorizontalScroll() int { return m.hscroll }
func (m *Model) HistoryRow() int { return m.historyRow }
func (m *Model) Widths() []int { return append([]int(nil), m.widths...) }
func (m *Model) Empty() bool { return len(m.rows) == 0 }

// TotalPages is never less than one.
func (m *Model) TotalPages() int {
	if len(m.rows) == 0 {
		return 1
	}
	return (len(m.rows) + PageSize - 1) / PageSize
}

// pageRows returns the rows of the current page.
func (m *Model) pageRows() [][]db.CellValue {
	start := m.page * PageSize
	end := min(start+PageSize, len(m.rows))
	if start >= end {
		return nil
	}
	return m.rows[start:end]
}

// NextRow wraps to the top of the current page.
func (m *Model) NextRow() {
	n := len(m.pageRows())
	if n == 0 {
		return
	}
	if m.selectedRow < 0 || m.selectedRow >= n-1 {
		m.selectedRow = 0
	} else {
		m.selectedRow++
	}
}

// PreviousRow wraps to the bottom of the current page.
func (m *Model) PreviousRow() {
	n := len(m.pageRows())
	if n == 0 {
		return
	}
	switch {
	case m.selectedRow < 0:
		m.selectedRow = 0
	case m.selectedRow == 0:
		m.selectedRow = n - 1
	default:
		m.selectedRow--
	}
}

func (m *Model) NextHistoryRow() {
	n := len(m.history)
	if n == 0 {
		return
	}
	if m.historyRow < 0 || m.historyRow >= n-1 {
		m.historyRow = 0
	} else {
		m.historyRow++
	}
}

func (m *Model) PreviousHistoryRow() {
	n := len(m.history)
	if n == 0 {
		return
	}
	switch {
	case m.historyRow < 0:
		m.historyRow = 0
	case m.historyRow == 0:
		m.historyRow = n - 1
	default:
		m.historyRow--
	}
}

// visibleColumns is the number of data columns right of the scroll offset.
func (m *Model) visibleColumns() int {
	return max(len(m.headers)-m.hscroll, 0)
}

func (m *Model) NextColumn() {
	if m.selectedCol < m.visibleColumns() {
		m.selectedCol++
	}
}

func (m *Model) PreviousColumn() {
	if m.selectedCol > 0 {
		m.selectedCol--
	}
}

// ScrollRight shifts the first visible data column, bounded to the last
// column.
func (m *Model) ScrollRight() {
	if m.hscroll < len(m.widths)-1 {
		m.hscroll++
		m.selectedCol = min(m.selectedCol, m.visibleColumns())
	}
}

func (m *Model) ScrollLeft() {
	if m.hscroll > 0 {
		m.hscroll--
	}
}

// NextPage is clamped at the last page.
func (m *Model) NextPage() {
	if m.page < m.TotalPages()-1 {
		m.page++
		m.selectedRow = 0
	}
}

// PreviousPage is clamped at the first page.
func (m *Model) PreviousPage() {
	if m.page > 0 {
		m.page--
		m.selectedRow = 0
	}
}

// JumpToAbsoluteRow selects row r of the whole result set, clamped to the
// valid range, switching page as needed.
func (m *Model) JumpToAbsoluteRow(r int) {
	if len(m.rows) == 0 {
		return
	}
	r = min(max(r, 0), len(m.rows)-1)
	m.page = r / PageSize
	m.selectedRow = r % PageSize
}

// AdjustColumnWidth changes the selected data column's width by delta,
// never below the width computed when the result was loaded.
func (m *Model) AdjustColumnWidth(delta int) {
	col, ok := m.selectedDataColumn()
	if !ok || col >= len(m.widths) {
		return
	}
	m.widths[col] = max(m.widths[col]+delta, m.minWidths[col])
}

// selectedDataColumn maps the displayed column to an index into headers.
func (m *Model) selectedDataColumn() (int, bool) {
	if m.selectedCol <= 0 {
		return 0, false
	}
	return m.selectedCol - 1 + m.hscroll, true
}

func (m *Model) NextColor() {
	m.palette = (m.palette + 1) % len(palettes)
}

func (m *Model) PreviousColor() {
	m.palette = (m.palette + len(palettes) - 1) % len(palettes)
}

// Palette returns the active color palette.
func (m *Model) Palette() Palette { return palettes[m.palette] }

// SelectedHistoryQuery returns the query of the selected history row.
func (m *Model) SelectedHistoryQuery() (string, bool) {
	if m.historyRow < 0 || m.historyRow >= len(m.history) {
		return "", false
	}
	return m.history[m.historyRow].Query, true
}

// Apply runs a table command. Commands that also touch the editor or the
// pipeline (copy query to editor, run history query) are the router's.
func (m *Model) Apply(cmd command.Command) {
	switch cmd.Kind {
	case command.TableNextTab:
		m.Tabs.Next()
	case command.TablePreviousTab:
		m.Tabs.Previous()
	case command.TableSetTabIndex:
		m.Tabs.SetIndex(cmd.Index)
	case command.TableNextRow:
		m.NextRow()
	case command.TablePreviousRow:
		m.PreviousRow()
	case command.TableNextHistoryRow:
		m.NextHistoryRow()
	case command.TablePreviousHistoryRow:
		m.PreviousHistoryRow()
	case command.TableScrollRight:
		m.ScrollRight()
	case command.TableScrollLeft:
		m.ScrollLeft()
	case command.TableNextColor:
		m.NextColor()
	case command.TablePreviousColor:
		m.PreviousColor()
	case command.TableNextPage:
		m.NextPage()
	case command.TablePreviousPage:
		m.PreviousPage()
	case command.TableJumpToFirstRow:
		m.JumpToAbsoluteRow(0)
	case command.TableJumpToLastRow:
		m.JumpToAbsoluteRow(len(m.rows) - 1)
	case command.TableNextColumn:
		m.NextColumn()
	case command.TablePreviousColumn:
		m.PreviousColumn()
	case command.TableColumnWidthIncrease:
		m.AdjustColumnWidth(1)
	case command.TableColumnWidthDecrease:
		m.AdjustColumnWidth(-1)
	case command.TableCopySelectedCell:
		if text, ok := m.CopySelectedCell(); ok {
			m.copy(text, "Copied cell to clipboard")
		}
	case command.TableCopySelectedRow:
		text, err := m.CopySelectedRow()
		if err != nil {
			log.Printf("table: copy row: %v", err)
			return
		}
		m.copy(text, "Copied row as JSON")
	}
}

// copy writes text to the clipboard. A failure is logged and leaves the
// status unchanged.
func (m *Model) copy(text, status string) {
	if m.clipboard == nil {
		return
	}
	if err := m.clipboard.WriteAll(text); err != nil {
		log.Printf("clipboard: %v", err)
		return
	}
	m.status = status
}

// WriteClipboard copies text for callers outside the table, reporting
// status on success.
func (m *Model) WriteClipboard(text, status string) {
	m.copy(text, status)
}
