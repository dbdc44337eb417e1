package ui

import "github.com/nhath/lazydata/internal/db"

// Nerd Font glyphs
const (
	iconPostgres = ""
	iconMySQL    = ""
	iconSQLite   = "\U000f01bc"
)

func databaseIcon(t db.DriverType) string {
	switch t {
	case db.Postgres:
		return iconPostgres
	case db.MySQL:
		return iconMySQL
	case db.SQLite:
		return iconSQLite
	}
	return iconSQLite
}
