package ui

import (
	"context"
	"sync"

	"github.com/nhath/lazydata/internal/db"
)

// session serialises access to the connected driver. Schema loads switch
// the driver's database, so they must not interleave with a running query.
type session struct {
	mu     sync.Mutex
	driver db.Driver

	// database mirrors driver.Database() so the view can read it while a
	// query holds mu.
	nameMu   sync.RWMutex
	database string
}

func newSession(d db.Driver) *session {
	return &session{driver: d, database: d.Database()}
}

func (s *session) Fetch(ctx context.Context, sql string) (*db.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Fetch(ctx, sql)
}

func (s *session) Exec(ctx context.Context, sql string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Exec(ctx, sql)
}

func (s *session) Database() string {
	s.nameMu.RLock()
	defer s.nameMu.RUnlock()
	return s.database
}

// use switches the driver to database. Callers hold mu.
func (s *session) use(ctx context.Context, database string) error {
	if s.driver.Database() == database {
		return nil
	}
	err := s.driver.UseDatabase(ctx, database)
	s.nameMu.Lock()
	s.database = s.driver.Database()
	s.nameMu.Unlock()
	return err
}

// FetchTables switches to database and lists its tables. Later queries
// run against that database too.
func (s *session) FetchTables(ctx context.Context, database string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.use(ctx, database); err != nil {
		return nil, err
	}
	return s.driver.FetchTables(ctx)
}

func (s *session) FetchTableMetadata(ctx context.Context, database, table string) (*db.TableMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.use(ctx, database); err != nil {
		return nil, err
	}
	return s.driver.FetchTableMetadata(ctx, table)
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Close()
}
