package resulttable

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNoSelection = errors.New("no row selected")

// absoluteRow is the index into the full result set of the selected row.
func (m *Model) absoluteRow() (int, bool) {
	if m.selectedRow < 0 {
		return 0, false
	}
	r := m.page*PageSize + m.selectedRow
	return r, r < len(m.rows)
}

// CopySelectedCell returns the selected cell's text. The row-number column
// yields the 1-based row number.
func (m *Model) CopySelectedCell() (string, bool) {
	r, ok := m.absoluteRow()
	if !ok {
		return "", false
	}
	if m.selectedCol == 0 {
		return strconv.Itoa(r + 1), true
	}
	col, _ := m.selectedDataColumn()
	row := m.rows[r]
	if col >= len(row) {
		return "", false
	}
	return row[col].Display(), true
}

// CopySelectedRow serializes the selected row as an indented JSON object
// keyed by header. Cells reading "null" or "[null]" become JSON null.
func (m *Model) CopySelectedRow() (string, error) {
	r, ok := m.absoluteRow()
	if !ok {
		return "", errNoSelection
	}
	obj := make(map[string]any, len(m.headers))
	for i, h := range m.headers {
		if i >= len(m.rows[r]) {
			break
		}
		text := m.rows[r][i].Display()
		if strings.EqualFold(text, "null") || strings.EqualFold(text, "[null]") {
			obj[h] = nil
		} else {
			obj[h] = text
		}
	}
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CopyQueryToEditor returns the selected history query while the history
// tab is active, otherwise the last executed query.
func (m *Model) CopyQueryToEditor() (string, bool) {
	if m.Tabs.Index == TabHistory {
		return m.SelectedHistoryQuery()
	}
	return m.lastQuery, m.lastQuery != ""
}
