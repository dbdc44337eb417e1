package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T, retention int) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := OpenStore(path, retention)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSaveAssignsIDsAndLoadsOldestFirst(t *testing.T) {
	s, _ := openTestStore(t, 0)
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	entries := []Entry{
		{Query: "select 2", ConnectionName: "dev", Timestamp: base.Add(time.Minute), Success: true, RowsAffected: 2, ExecutionTime: 15 * time.Millisecond},
		{Query: "select 1", ConnectionName: "dev", Timestamp: base, Success: false},
	}
	if err := s.Save(entries); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for i, e := range entries {
		if e.ID == 0 {
			t.Errorf("entry %d has no id after save", i)
		}
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d entries, want 2", len(got))
	}
	if got[0].Query != "select 1" || got[1].Query != "select 2" {
		t.Errorf("order = %q, %q", got[0].Query, got[1].Query)
	}
	if !got[1].Success || got[1].RowsAffected != 2 || got[1].ExecutionTime != 15*time.Millisecond {
		t.Errorf("round trip lost fields: %+v", got[1])
	}
	if !got[1].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("timestamp = %v", got[1].Timestamp)
	}
}

func TestSaveSkipsPersistedEntries(t *testing.T) {
	s, _ := openTestStore(t, 0)

	first := []Entry{{Query: "a", ConnectionName: "c", Timestamp: time.Now()}}
	if err := s.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	all := append(first, Entry{Query: "b", ConnectionName: "c", Timestamp: time.Now()})
	if err := s.Save(all); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("stored %d entries, want 2", len(loaded))
	}
}

func TestRetentionPrunesOnOpen(t *testing.T) {
	s, path := openTestStore(t, 0)
	if err := s.Save([]Entry{
		{Query: "old", ConnectionName: "c", Timestamp: time.Now().AddDate(0, 0, -100)},
		{Query: "new", ConnectionName: "c", Timestamp: time.Now()},
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	reopened, err := OpenStore(path, DefaultRetentionDays)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Query != "new" {
		t.Errorf("after prune = %+v", got)
	}
}

func TestOpenStoreBadPath(t *testing.T) {
	dir := t.TempDir()
	// a directory cannot be opened as the database file
	_, err := OpenStore(dir, 0)
	var pe *PersistenceError
	if err == nil {
		t.Skip("sqlite accepted a directory path")
	}
	if !errors.As(err, &pe) {
		t.Errorf("err = %T %v, want PersistenceError", err, err)
	}
}

func TestQueryPreview(t *testing.T) {
	e := Entry{Query: "select *\n  from   users\nwhere id = 1"}
	if got := e.QueryPreview(100); got != "select * from users where id = 1" {
		t.Errorf("preview = %q", got)
	}
	if got := e.QueryPreview(10); got != "select ..." {
		t.Errorf("truncated = %q", got)
	}
}
