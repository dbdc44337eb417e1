// internal/history/store.go
package history

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultRetentionDays applies when the config does not set one.
const DefaultRetentionDays = 90

// PersistenceError reports a failed read or write of the history file.
// Callers log it; it never ends the session.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store manages query history persistence
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath is the history database under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile("lazydata/history.db")
}

// NewStore opens the history database at DefaultPath.
func NewStore(retentionDays int) (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, &PersistenceError{Op: "locate", Err: err}
	}
	return OpenStore(path, retentionDays)
}

// OpenStore opens or creates the history database at path and prunes
// entries older than retentionDays. A non-positive retention keeps
// everything.
func OpenStore(path string, retentionDays int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &PersistenceError{Op: "open", Path: path, Err: err}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Path: path, Err: err}
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "open", Path: path, Err: err}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			connection_name TEXT NOT NULL,
			query TEXT NOT NULL,
			executed_at TIMESTAMP NOT NULL,
			execution_time_ns INTEGER NOT NULL,
			rows_affected INTEGER NOT NULL,
			success INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_history_connection ON history(connection_name);
		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON history(executed_at);
	`)
	if err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "migrate", Path: path, Err: err}
	}

	store := &Store{db: db, path: path}
	if retentionDays > 0 {
		if err := store.prune(time.Now().AddDate(0, 0, -retentionDays)); err != nil {
			log.Printf("history: prune: %v", err)
		}
	}
	return store, nil
}

// Path is the file backing the store.
func (s *Store) Path() string { return s.path }

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns every entry, oldest first.
func (s *Store) Load() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, connection_name, query, executed_at, execution_time_ns, rows_affected, success
		FROM history
		ORDER BY executed_at ASC, id ASC
	`)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ns int64
		)
		if err := rows.Scan(&e.ID, &e.ConnectionName, &e.Query, &e.Timestamp,
			&ns, &e.RowsAffected, &e.Success); err != nil {
			return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
		}
		e.ExecutionTime = time.Duration(ns)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}
	return entries, nil
}

// Save inserts every entry whose ID is zero and assigns its new ID.
// Entries that already carry an ID were loaded from the store and are
// skipped.
func (s *Store) Save(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO history (connection_name, query, executed_at, execution_time_ns, rows_affected, success)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	defer stmt.Close()

	ids := make([]int64, len(entries))
	for i, e := range entries {
		if e.ID != 0 {
			continue
		}
		res, err := stmt.Exec(e.ConnectionName, e.Query, e.Timestamp.UTC(),
			e.ExecutionTime.Nanoseconds(), e.RowsAffected, e.Success)
		if err != nil {
			return &PersistenceError{Op: "save", Path: s.path, Err: err}
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return &PersistenceError{Op: "save", Path: s.path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	for i := range entries {
		if ids[i] != 0 {
			entries[i].ID = ids[i]
		}
	}
	return nil
}

// prune removes entries executed before cutoff.
func (s *Store) prune(cutoff time.Time) error {
	_, err := s.db.Exec("DELETE FROM history WHERE executed_at < ?", cutoff.UTC())
	return err
}
