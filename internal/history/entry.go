// internal/history/entry.go
package history

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Entry is one attempted query. Failed attempts are recorded too, with
// Success false and RowsAffected 0.
type Entry struct {
	ID             int64         `json:"-"`
	Query          string        `json:"query"`
	ConnectionName string        `json:"connection_name"`
	Timestamp      time.Time     `json:"timestamp"`
	Success        bool          `json:"success"`
	RowsAffected   uint64        `json:"rows_affected"`
	ExecutionTime  time.Duration `json:"execution_time"`
}

// QueryPreview returns the query collapsed to one line and truncated to
// maxWidth display cells.
func (e *Entry) QueryPreview(maxWidth int) string {
	q := strings.Join(strings.Fields(e.Query), " ")
	return runewidth.Truncate(q, maxWidth, "...")
}

// Status is the short success marker shown in the history tab.
func (e *Entry) Status() string {
	if e.Success {
		return "ok"
	}
	return "error"
}
