// internal/db/mysql.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

var mysqlSystemDatabases = map[string]bool{
	"information_schema": true,
	"mysql":              true,
	"performance_schema": true,
	"sys":                true,
}

// MySQLDriver implements Driver for MySQL
type MySQLDriver struct {
	db      *sql.DB
	tunnel  *SSHTunnel
	netName string // registered dial network when tunnelled
	params  ConnectParams
}

// Connect establishes connection to MySQL
func (d *MySQLDriver) Connect(ctx context.Context, params ConnectParams) error {
	if params.Port == 0 {
		params.Port = 3306
	}

	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel
		d.registerDial()
	}

	db, err := d.open(ctx, params)
	if err != nil {
		d.Close()
		return err
	}
	d.db = db
	d.params = params
	return nil
}

// registerDial names one process-global dial network per driver. The dialer
// reads the driver's current tunnel at dial time.
func (d *MySQLDriver) registerDial() {
	if d.netName != "" {
		return
	}
	d.netName = fmt.Sprintf("mysql+ssh+%p", d)
	mysql.RegisterDialContext(d.netName, func(ctx context.Context, addr string) (net.Conn, error) {
		tunnel := d.tunnel
		if tunnel == nil {
			return nil, fmt.Errorf("ssh tunnel closed")
		}
		return tunnel.DialContext(ctx, "tcp", addr)
	})
}

// open returns a pinged pool for params.
func (d *MySQLDriver) open(ctx context.Context, params ConnectParams) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(params.Host, strconv.Itoa(params.Port))
	cfg.DBName = params.Database
	cfg.ParseTime = true
	if d.tunnel != nil {
		cfg.Net = d.netName
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// sql.Open is lazy
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, WrapConnectionError(err)
	}
	return db, nil
}

// Close closes the database connection and SSH tunnel
func (d *MySQLDriver) Close() error {
	var dbErr error
	if d.db != nil {
		dbErr = d.db.Close()
		d.db = nil
	}
	if d.tunnel != nil {
		err := d.tunnel.Close()
		d.tunnel = nil
		if err != nil {
			if dbErr != nil {
				return fmt.Errorf("db close err: %v, tunnel close err: %w", dbErr, err)
			}
			return err
		}
	}
	return dbErr
}

// Ping checks if database is reachable
func (d *MySQLDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *MySQLDriver) Type() DriverType {
	return MySQL
}

func (d *MySQLDriver) Database() string { return d.params.Database }

// UseDatabase reconnects with name as the default schema. The current pool
// is only replaced once the new one answers a ping.
func (d *MySQLDriver) UseDatabase(ctx context.Context, name string) error {
	if name == d.params.Database && d.db != nil {
		return nil
	}
	params := d.params
	params.Database = name
	db, err := d.open(ctx, params)
	if err != nil {
		return err
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Printf("mysql: close pool for %s: %v", d.params.Database, err)
		}
	}
	d.db = db
	d.params = params
	return nil
}

func (d *MySQLDriver) Fetch(ctx context.Context, query string) (*Rows, error) {
	return fetchRows(ctx, d.db, query)
}

func (d *MySQLDriver) Exec(ctx context.Context, query string) (int64, error) {
	return execStatement(ctx, d.db, query)
}

// FetchDatabases lists user databases, hiding the server's own schemas.
func (d *MySQLDriver) FetchDatabases(ctx context.Context) ([]string, error) {
	all, err := queryStrings(ctx, d.db, "SHOW DATABASES")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range all {
		if !mysqlSystemDatabases[strings.ToLower(name)] {
			out = append(out, name)
		}
	}
	return out, nil
}

// FetchTables returns a list of tables in the current database
func (d *MySQLDriver) FetchTables(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, d.db,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name")
}

// FetchTableMetadata combines SHOW TABLE STATUS, information_schema and
// SHOW INDEX / SHOW TRIGGERS output for one table.
func (d *MySQLDriver) FetchTableMetadata(ctx context.Context, table string) (*TableMetadata, error) {
	md := &TableMetadata{Name: table, TableType: "table"}

	status, err := d.showRows(ctx, "SHOW TABLE STATUS WHERE Name = ?", table)
	if err != nil {
		return nil, err
	}
	if len(status) > 0 {
		s := status[0]
		md.RowCount, _ = strconv.ParseInt(s["Rows"], 10, 64)
		data, _ := strconv.ParseInt(s["Data_length"], 10, 64)
		index, _ := strconv.ParseInt(s["Index_length"], 10, 64)
		md.EstimatedSize = humanBytes(data + index)
		if s["Engine"] == "" && strings.EqualFold(s["Comment"], "VIEW") {
			md.TableType = "view"
		}
	}

	if md.Columns, err = d.columns(ctx, table); err != nil {
		return nil, err
	}

	if md.Constraints, err = queryStrings(ctx, d.db, `
		SELECT CONCAT(CONSTRAINT_NAME, ' ', CONSTRAINT_TYPE)
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()
		ORDER BY CONSTRAINT_NAME`, table); err != nil {
		return nil, err
	}

	if md.Indexes, err = queryStrings(ctx, d.db, `
		SELECT DISTINCT INDEX_NAME FROM INFORMATION_SCHEMA.STATISTICS
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()
		ORDER BY INDEX_NAME`, table); err != nil {
		return nil, err
	}

	triggers, err := d.showRows(ctx, "SHOW TRIGGERS WHERE `Table` = ?", table)
	if err != nil {
		return nil, err
	}
	for _, t := range triggers {
		md.Triggers = append(md.Triggers, t["Trigger"])
	}
	return md, nil
}

func (d *MySQLDriver) columns(ctx context.Context, table string) ([]Column, error) {
	query := `
		SELECT
			COLUMN_NAME,
			COLUMN_TYPE,
			IS_NULLABLE = 'YES',
			IFNULL(COLUMN_DEFAULT, ''),
			COLUMN_KEY
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = ? AND TABLE_SCHEMA = DATABASE()
		ORDER BY ORDINAL_POSITION`

	rows, err := d.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.Type, &col.Nullable, &col.Default, &col.Key); err != nil {
			return nil, WrapQueryError(err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return columns, nil
}

// showRows runs a SHOW statement, whose column set varies by server version,
// and returns each row keyed by column name.
func (d *MySQLDriver) showRows(ctx context.Context, query string, args ...any) ([]map[string]string, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, WrapQueryError(err)
	}
	var out []map[string]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, WrapQueryError(err)
		}
		row := make(map[string]string, len(columns))
		for i, c := range columns {
			row[c] = values[i].String
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return out, nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d bytes", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "kMGTPE"[exp])
}
