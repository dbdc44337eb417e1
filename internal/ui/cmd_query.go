package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// executeQueryCmd runs sql through the pipeline asynchronously. Queries
// are not cancellable and have no timeout.
func (m Model) executeQueryCmd(sql string) tea.Cmd {
	pipeline, exec, connection := m.pipeline, m.session, m.connection
	return func() tea.Msg {
		res, err := pipeline.Execute(context.Background(), exec, connection, sql)
		return queryFinishedMsg{SQL: sql, Result: res, Err: err}
	}
}

// fetchTablesCmd switches the connection to database and lists its tables.
func (m Model) fetchTablesCmd(database string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		tables, err := s.FetchTables(context.Background(), database)
		return tablesLoadedMsg{Database: database, Tables: tables, Err: err}
	}
}

func (m Model) fetchMetadataCmd(database, table string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		meta, err := s.FetchTableMetadata(context.Background(), database, table)
		return metadataLoadedMsg{Database: database, Table: table, Metadata: meta, Err: err}
	}
}
