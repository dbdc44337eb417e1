// Package appstate holds the application context shared by the query
// pipeline and the UI: the latest query statistics and the history log.
package appstate

import (
	"sync"
	"time"

	"github.com/nhath/lazydata/internal/history"
)

// Stats describes the most recent successful query.
type Stats struct {
	Rows    uint64
	Elapsed time.Duration
}

// State is safe for concurrent use.
type State struct {
	mu       sync.RWMutex
	stats    Stats
	hasStats bool
	history  []history.Entry
	saved    int // history[:saved] is already persisted
}

// New returns a State seeded with previously persisted history.
func New(loaded []history.Entry) *State {
	h := append([]history.Entry(nil), loaded...)
	return &State{history: h, saved: len(h)}
}

func (s *State) RecordStats(st Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = st
	s.hasStats = true
}

// Stats returns the latest statistics and whether any query has succeeded.
func (s *State) Stats() (Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.hasStats
}

func (s *State) AppendHistory(e history.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, e)
}

// History returns the entries for one connection, oldest first. An empty
// connection name returns every entry.
func (s *State) History(connection string) []history.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []history.Entry
	for _, e := range s.history {
		if connection == "" || e.ConnectionName == connection {
			out = append(out, e)
		}
	}
	return out
}

// Pending returns a copy of the entries appended since the last MarkSaved.
func (s *State) Pending() []history.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]history.Entry(nil), s.history[s.saved:]...)
}

// MarkSaved records that the first n pending entries were persisted, taking
// their store-assigned IDs from saved.
func (s *State) MarkSaved(saved []history.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(len(saved), len(s.history)-s.saved)
	for i := 0; i < n; i++ {
		s.history[s.saved+i].ID = saved[i].ID
	}
	s.saved += n
}
