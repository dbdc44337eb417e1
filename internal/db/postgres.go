// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

// PostgresDriver implements Driver for PostgreSQL
type PostgresDriver struct {
	db     *sql.DB
	tunnel *SSHTunnel
	params ConnectParams
}

// Connect establishes connection to PostgreSQL
func (d *PostgresDriver) Connect(ctx context.Context, params ConnectParams) error {
	if params.Port == 0 {
		params.Port = 5432
	}
	if params.Database == "" {
		params.Database = "postgres"
	}

	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel
	}

	db, err := d.open(ctx, params)
	if err != nil {
		d.closeTunnel()
		return err
	}
	d.db = db
	d.params = params
	return nil
}

// open returns a pinged pool for params, dialling through the driver's
// tunnel when it has one.
func (d *PostgresDriver) open(ctx context.Context, params ConnectParams) (*sql.DB, error) {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(params.User, params.Password),
		Host:     net.JoinHostPort(params.Host, fmt.Sprint(params.Port)),
		Path:     "/" + params.Database,
		RawQuery: "sslmode=prefer",
	}
	connConfig, err := pgx.ParseConfig(u.String())
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	if tunnel := d.tunnel; tunnel != nil {
		// the SSH server resolves the database host, not this machine
		connConfig.LookupFunc = func(ctx context.Context, host string) ([]string, error) {
			return []string{host}, nil
		}
		remoteAddr := net.JoinHostPort(params.Host, fmt.Sprint(params.Port))
		connConfig.DialFunc = func(ctx context.Context, network, _ string) (net.Conn, error) {
			return tunnel.DialContext(ctx, network, remoteAddr)
		}
	}

	db := stdlib.OpenDB(*connConfig)
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, WrapConnectionError(err)
	}
	return db, nil
}

func (d *PostgresDriver) closeTunnel() error {
	if d.tunnel == nil {
		return nil
	}
	err := d.tunnel.Close()
	d.tunnel = nil
	return err
}

// Close closes the database connection and SSH tunnel
func (d *PostgresDriver) Close() error {
	var dbErr error
	if d.db != nil {
		dbErr = d.db.Close()
		d.db = nil
	}
	if err := d.closeTunnel(); err != nil {
		if dbErr != nil {
			return fmt.Errorf("db close err: %v, tunnel close err: %w", dbErr, err)
		}
		return err
	}
	return dbErr
}

// Ping checks if database is reachable
func (d *PostgresDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *PostgresDriver) Type() DriverType {
	return Postgres
}

func (d *PostgresDriver) Database() string { return d.params.Database }

// UseDatabase reconnects to name. Postgres connections are bound to one
// database, so this opens a new pool over the same tunnel. The current pool
// is only replaced once the new one answers a ping.
func (d *PostgresDriver) UseDatabase(ctx context.Context, name string) error {
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
			log.Printf("postgres: close pool for %s: %v", d.params.Database, err)
		}
	}
	d.db = db
	d.params = params
	return nil
}

func (d *PostgresDriver) Fetch(ctx context.Context, query string) (*Rows, error) {
	return fetchRows(ctx, d.db, query)
}

func (d *PostgresDriver) Exec(ctx context.Context, query string) (int64, error) {
	return execStatement(ctx, d.db, query)
}

// FetchDatabases lists non-template databases.
func (d *PostgresDriver) FetchDatabases(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, d.db,
		"SELECT datname FROM pg_database WHERE datistemplate = false ORDER BY datname")
}

// FetchTables returns schema-qualified tables in all non-system schemas
func (d *PostgresDriver) FetchTables(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, d.db, `
		SELECT n.nspname || '.' || c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		AND c.relkind IN ('r', 'v', 'm', 'f', 'p')
		ORDER BY 1`)
}

// FetchTableMetadata gathers columns, constraints and catalog objects of a
// schema-qualified table.
func (d *PostgresDriver) FetchTableMetadata(ctx context.Context, table string) (*TableMetadata, error) {
	md := &TableMetadata{Name: table}

	err := d.db.QueryRowContext(ctx, `
		SELECT
			GREATEST(c.reltuples, 0)::BIGINT,
			pg_size_pretty(pg_total_relation_size(c.oid)),
			CASE c.relkind
				WHEN 'r' THEN 'table'
				WHEN 'v' THEN 'view'
				WHEN 'm' THEN 'materialized view'
				WHEN 'f' THEN 'foreign table'
				WHEN 'p' THEN 'partitioned table'
				ELSE 'other'
			END
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname || '.' || c.relname = $1`, table).
		Scan(&md.RowCount, &md.EstimatedSize, &md.TableType)
	if err != nil {
		return nil, WrapQueryError(err)
	}

	if md.Columns, err = d.columns(ctx, table); err != nil {
		return nil, err
	}

	lists := []struct {
		dst   *[]string
		query string
	}{
		{&md.Constraints, `
			SELECT conname || ' ' || pg_get_constraintdef(c.oid)
			FROM pg_constraint c
			JOIN pg_class cl ON cl.oid = c.conrelid
			JOIN pg_namespace n ON n.oid = cl.relnamespace
			WHERE n.nspname || '.' || cl.relname = $1
			ORDER BY conname`},
		{&md.Indexes, `
			SELECT indexname FROM pg_indexes
			WHERE schemaname || '.' || tablename = $1 ORDER BY indexname`},
		{&md.Policies, `
			SELECT policyname FROM pg_policies
			WHERE schemaname || '.' || tablename = $1 ORDER BY policyname`},
		{&md.Rules, `
			SELECT rulename FROM pg_rules
			WHERE schemaname || '.' || tablename = $1 ORDER BY rulename`},
		{&md.Triggers, `
			SELECT t.tgname FROM pg_trigger t
			JOIN pg_class cl ON cl.oid = t.tgrelid
			JOIN pg_namespace n ON n.oid = cl.relnamespace
			WHERE n.nspname || '.' || cl.relname = $1 AND NOT t.tgisinternal
			ORDER BY t.tgname`},
	}
	for _, l := range lists {
		if *l.dst, err = queryStrings(ctx, d.db, l.query, table); err != nil {
			return nil, err
		}
	}

	// reltuples is -1 for never-analyzed tables; count small ones exactly
	if md.RowCount == 0 && md.TableType == "table" {
		var exact int64
		q := "SELECT COUNT(*) FROM " + quoteQualified(table)
		if err := d.db.QueryRowContext(ctx, q).Scan(&exact); err == nil {
			md.RowCount = exact
		}
	}
	return md, nil
}

func (d *PostgresDriver) columns(ctx context.Context, table string) ([]Column, error) {
	query := `
		SELECT
			a.attname AS column_name,
			format_type(a.atttypid, a.atttypmod) AS data_type,
			NOT a.attnotnull AS nullable,
			COALESCE(pg_get_expr(d.adbin, d.adrelid), '') AS default_value,
			COALESCE(
				(SELECT 'PRI' FROM pg_index i WHERE i.indrelid = a.attrelid AND a.attnum = ANY(i.indkey::int2[]) AND i.indisprimary LIMIT 1),
				(SELECT 'UNI' FROM pg_index i WHERE i.indrelid = a.attrelid AND a.attnum = ANY(i.indkey::int2[]) AND i.indisunique AND NOT i.indisprimary LIMIT 1),
				(SELECT 'FK' FROM pg_constraint c WHERE c.conrelid = a.attrelid AND a.attnum = ANY(c.conkey::int2[]) AND c.contype = 'f' LIMIT 1),
				''
			) AS key_type
		FROM pg_attribute a
		LEFT JOIN pg_attrdef d ON a.attrelid = d.adrelid AND a.attnum = d.adnum
		JOIN pg_class cl ON a.attrelid = cl.oid
		JOIN pg_namespace n ON cl.relnamespace = n.oid
		WHERE n.nspname || '.' || cl.relname = $1 AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum`

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

// quoteQualified quotes each part of "schema.table".
func quoteQualified(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return pq.QuoteIdentifier(name[:i]) + "." + pq.QuoteIdentifier(name[i+1:])
		}
	}
	return pq.QuoteIdentifier(name)
}
