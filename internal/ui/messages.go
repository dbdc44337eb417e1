// internal/ui/messages.go
package ui

import (
	"github.com/nhath/lazydata/internal/db"
	"github.com/nhath/lazydata/internal/query"
)

// queryFinishedMsg carries the outcome of one pipeline run.
type queryFinishedMsg struct {
	SQL    string
	Result query.Result
	Err    error
}

// tablesLoadedMsg is sent when a database node's tables come back.
type tablesLoadedMsg struct {
	Database string
	Tables   []string
	Err      error
}

// metadataLoadedMsg is sent when a table node's metadata comes back.
type metadataLoadedMsg struct {
	Database string
	Table    string
	Metadata *db.TableMetadata
	Err      error
}
