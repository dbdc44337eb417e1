// internal/db/driver.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// ParseDriverType accepts the canonical names plus common aliases.
func ParseDriverType(s string) (DriverType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", fmt.Errorf("unknown database type: %q", s)
}

func (t DriverType) String() string {
	switch t {
	case Postgres:
		return "PostgreSQL"
	case MySQL:
		return "MySQL"
	case SQLite:
		return "SQLite"
	}
	return string(t)
}

// Column represents table column metadata
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	Key      string // PRI, UNI, MUL, FK
}

func (c Column) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Type)
}

// TableMetadata is everything the sidebar shows for an expanded table.
type TableMetadata struct {
	Name          string
	TableType     string
	RowCount      int64
	EstimatedSize string
	Columns       []Column
	Constraints   []string
	Indexes       []string
	Policies      []string
	Rules         []string
	Triggers      []string
}

// ConnectParams holds database connection details
type ConnectParams struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSHConfig *SSHConfig // Optional SSH tunnel config
}

// Rows is a fully fetched result set.
type Rows struct {
	Headers []string
	Types   []string
	Values  [][]CellValue
}

// Driver is one connected backend. The concrete type is chosen once per
// connection by NewDriver; callers only see this interface.
type Driver interface {
	Connect(ctx context.Context, params ConnectParams) error
	Close() error
	Ping(ctx context.Context) error
	Type() DriverType

	// UseDatabase reconnects the same credentials to another database.
	UseDatabase(ctx context.Context, name string) error
	Database() string

	Fetch(ctx context.Context, query string) (*Rows, error)
	Exec(ctx context.Context, query string) (int64, error)

	FetchDatabases(ctx context.Context) ([]string, error)
	FetchTables(ctx context.Context) ([]string, error)
	FetchTableMetadata(ctx context.Context, table string) (*TableMetadata, error)
}

// NewDriver creates a new driver instance by type
func NewDriver(driverType DriverType) (Driver, error) {
	switch driverType {
	case Postgres:
		return &PostgresDriver{}, nil
	case MySQL:
		return &MySQLDriver{}, nil
	case SQLite:
		return &SQLiteDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown driver type: %s", driverType)
	}
}

// fetchRows runs a row-returning statement and converts every cell.
func fetchRows(ctx context.Context, db *sql.DB, query string) (*Rows, error) {
	if db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapQueryError(err)
	}
	types := make([]string, len(columns))
	if colTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range colTypes {
			types[i] = ct.DatabaseTypeName()
		}
	}

	result := &Rows{Headers: columns, Types: types}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, WrapQueryError(err)
		}

		row := make([]CellValue, len(columns))
		for i, v := range values {
			row[i] = NewCellValue(v, types[i])
		}
		result.Values = append(result.Values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return result, nil
}

// execStatement runs a mutating statement and reports affected rows.
func execStatement(ctx context.Context, db *sql.DB, query string) (int64, error) {
	if db == nil {
		return 0, WrapConnectionError(fmt.Errorf("not connected"))
	}
	res, err := db.ExecContext(ctx, query)
	if err != nil {
		return 0, WrapQueryError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, WrapQueryError(err)
	}
	return affected, nil
}

// queryStrings collects the first column of every row as text.
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, WrapQueryError(err)
		}
		out = append(out, v.String)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return out, nil
}
