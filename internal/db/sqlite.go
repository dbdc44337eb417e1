// internal/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteMain is the only database an SQLite file exposes.
const sqliteMain = "main"

// SQLiteDriver implements Driver for SQLite
type SQLiteDriver struct {
	db   *sql.DB
	path string
}

// Connect opens the file named by params.Database, or params.Host when the
// database field is empty.
func (d *SQLiteDriver) Connect(ctx context.Context, params ConnectParams) error {
	dsn := params.Database
	if dsn == "" {
		dsn = params.Host
	}
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" {
		return WrapConnectionError(fmt.Errorf("sqlite: no database file given"))
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return WrapConnectionError(err)
	}
	// one connection keeps :memory: databases and pragmas consistent
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 10000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return WrapConnectionError(fmt.Errorf("%s: %w", pragma, err))
		}
	}

	d.db = db
	d.path = dsn
	return nil
}

// Close closes the database connection
func (d *SQLiteDriver) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// Ping checks if database is reachable
func (d *SQLiteDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *SQLiteDriver) Type() DriverType {
	return SQLite
}

func (d *SQLiteDriver) Database() string { return sqliteMain }

// UseDatabase only accepts "main"; a file holds a single database.
func (d *SQLiteDriver) UseDatabase(_ context.Context, name string) error {
	if name != sqliteMain {
		return WrapConnectionError(fmt.Errorf("sqlite: unknown database %q", name))
	}
	return nil
}

func (d *SQLiteDriver) Fetch(ctx context.Context, query string) (*Rows, error) {
	return fetchRows(ctx, d.db, query)
}

func (d *SQLiteDriver) Exec(ctx context.Context, query string) (int64, error) {
	return execStatement(ctx, d.db, query)
}

func (d *SQLiteDriver) FetchDatabases(context.Context) ([]string, error) {
	return []string{sqliteMain}, nil
}

// FetchTables returns user tables and views.
func (d *SQLiteDriver) FetchTables(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, d.db, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
}

// FetchTableMetadata reads table_info, index_list, foreign keys and triggers.
func (d *SQLiteDriver) FetchTableMetadata(ctx context.Context, table string) (*TableMetadata, error) {
	md := &TableMetadata{Name: table, EstimatedSize: "-"}

	if err := d.db.QueryRowContext(ctx,
		"SELECT type FROM sqlite_master WHERE name = ?", table).Scan(&md.TableType); err != nil {
		if err == sql.ErrNoRows {
			return nil, WrapQueryError(fmt.Errorf("no such table: %s", table))
		}
		return nil, WrapQueryError(err)
	}

	quoted := pq.QuoteIdentifier(table)
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoted).Scan(&md.RowCount); err != nil {
		return nil, WrapQueryError(err)
	}

	var err error
	if md.Columns, err = d.columns(ctx, quoted); err != nil {
		return nil, err
	}
	if md.Indexes, err = d.pragmaColumn(ctx, "PRAGMA index_list("+quoted+")", "name"); err != nil {
		return nil, err
	}
	if md.Constraints, err = d.foreignKeys(ctx, quoted); err != nil {
		return nil, err
	}
	if md.Triggers, err = queryStrings(ctx, d.db,
		"SELECT name FROM sqlite_master WHERE type = 'trigger' AND tbl_name = ? ORDER BY name", table); err != nil {
		return nil, err
	}
	return md, nil
}

func (d *SQLiteDriver) columns(ctx context.Context, quoted string) ([]Column, error) {
	rows, err := d.db.QueryContext(ctx, "PRAGMA table_info("+quoted+")")
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			cid       int
			name      string
			dataType  string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return nil, WrapQueryError(err)
		}

		key := ""
		if pk > 0 {
			key = "PRI"
		}
		columns = append(columns, Column{
			Name:     name,
			Type:     dataType,
			Nullable: notNull == 0,
			Default:  dfltValue.String,
			Key:      key,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return columns, nil
}

func (d *SQLiteDriver) foreignKeys(ctx context.Context, quoted string) ([]string, error) {
	rows, err := fetchRows(ctx, d.db, "PRAGMA foreign_key_list("+quoted+")")
	if err != nil {
		return nil, err
	}
	idx := headerIndex(rows.Headers)
	var out []string
	for _, r := range rows.Values {
		out = append(out, fmt.Sprintf("fk_%s (%s) REFERENCES %s(%s) ON UPDATE %s ON DELETE %s",
			r[idx["id"]], r[idx["from"]], r[idx["table"]], r[idx["to"]],
			r[idx["on_update"]], r[idx["on_delete"]]))
	}
	return out, nil
}

// pragmaColumn returns one named column of a pragma's output.
func (d *SQLiteDriver) pragmaColumn(ctx context.Context, pragma, column string) ([]string, error) {
	rows, err := fetchRows(ctx, d.db, pragma)
	if err != nil {
		return nil, err
	}
	i, ok := headerIndex(rows.Headers)[column]
	if !ok {
		return nil, nil
	}
	var out []string
	for _, r := range rows.Values {
		out = append(out, r[i].Display())
	}
	return out, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}
