// internal/db/sqlite_test.go
package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openSQLite(t *testing.T) Driver {
	t.Helper()
	d, err := NewDriver(SQLite)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if err := d.Connect(context.Background(), ConnectParams{Database: ":memory:"}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE TABLE owners (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`,
		`CREATE TABLE pets (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT 'rex',
			owner_id INTEGER REFERENCES owners(id),
			weight REAL
		)`,
		`CREATE INDEX pets_owner ON pets(owner_id)`,
		`CREATE TRIGGER pets_touch AFTER UPDATE ON pets BEGIN SELECT 1; END`,
		`INSERT INTO owners (id, name) VALUES (1, 'ann')`,
		`INSERT INTO pets (name, owner_id, weight) VALUES ('a', 1, 1.5), ('b', 1, NULL), ('c', NULL, 3)`,
	} {
		if _, err := d.Exec(ctx, stmt); err != nil {
			t.Fatalf("setup %q: %v", stmt, err)
		}
	}
	return d
}

func TestSQLiteFetch(t *testing.T) {
	d := openSQLite(t)

	rows, err := d.Fetch(context.Background(), "SELECT id, name, weight FROM pets ORDER BY id")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := len(rows.Headers); got != 3 {
		t.Fatalf("headers = %v", rows.Headers)
	}
	if len(rows.Values) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows.Values))
	}
	if got := rows.Values[0][1].Display(); got != "a" {
		t.Errorf("name = %q", got)
	}
	if rows.Values[1][2].Kind != CellNull {
		t.Errorf("weight of b = %v, want NULL", rows.Values[1][2])
	}
	if rows.Values[0][0].Kind != CellInt {
		t.Errorf("id kind = %v, want int", rows.Values[0][0].Kind)
	}
}

func TestSQLiteExec(t *testing.T) {
	d := openSQLite(t)

	n, err := d.Exec(context.Background(), "UPDATE pets SET weight = 2 WHERE owner_id = 1")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if n != 2 {
		t.Errorf("affected = %d, want 2", n)
	}
}

func TestSQLiteQueryError(t *testing.T) {
	d := openSQLite(t)

	_, err := d.Fetch(context.Background(), "SELECT * FROM nope")
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("err = %v, want QueryError", err)
	}
}

func TestSQLiteCatalog(t *testing.T) {
	d := openSQLite(t)
	ctx := context.Background()

	dbs, err := d.FetchDatabases(ctx)
	if err != nil || len(dbs) != 1 || dbs[0] != "main" {
		t.Fatalf("databases = %v, %v", dbs, err)
	}
	if err := d.UseDatabase(ctx, "main"); err != nil {
		t.Errorf("use main: %v", err)
	}
	if err := d.UseDatabase(ctx, "other"); err == nil {
		t.Error("use other: expected error")
	}

	tables, err := d.FetchTables(ctx)
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if len(tables) != 2 || tables[0] != "owners" || tables[1] != "pets" {
		t.Errorf("tables = %v", tables)
	}
}

func TestSQLiteTableMetadata(t *testing.T) {
	d := openSQLite(t)

	md, err := d.FetchTableMetadata(context.Background(), "pets")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if md.RowCount != 3 {
		t.Errorf("row count = %d, want 3", md.RowCount)
	}
	if md.TableType != "table" {
		t.Errorf("type = %q", md.TableType)
	}
	if len(md.Columns) != 4 {
		t.Fatalf("columns = %v", md.Columns)
	}
	if md.Columns[0].Key != "PRI" || md.Columns[1].Nullable || md.Columns[1].Default != "'rex'" {
		t.Errorf("column details = %+v", md.Columns[:2])
	}
	if len(md.Indexes) != 1 || md.Indexes[0] != "pets_owner" {
		t.Errorf("indexes = %v", md.Indexes)
	}
	if len(md.Constraints) != 1 {
		t.Errorf("constraints = %v", md.Constraints)
	}
	if len(md.Triggers) != 1 || md.Triggers[0] != "pets_touch" {
		t.Errorf("triggers = %v", md.Triggers)
	}

	if _, err := d.FetchTableMetadata(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestSQLiteFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	d := &SQLiteDriver{}
	if err := d.Connect(context.Background(), ConnectParams{Host: "sqlite://" + path}); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer d.Close()
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if d.Database() != "main" || d.Type() != SQLite {
		t.Errorf("database = %q, type = %v", d.Database(), d.Type())
	}
}
