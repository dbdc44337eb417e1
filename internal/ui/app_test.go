package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/lazydata/internal/appstate"
	"github.com/nhath/lazydata/internal/command"
	"github.com/nhath/lazydata/internal/db"
	"github.com/nhath/lazydata/internal/keymap"
	"github.com/nhath/lazydata/internal/query"
	"github.com/nhath/lazydata/internal/resulttable"
)

type fakeDriver struct {
	database string
	tables   map[string][]string
	rows     *db.Rows
	affected int64
	err      error
	switched []string
}

func (f *fakeDriver) Connect(context.Context, db.ConnectParams) error { return nil }
func (f *fakeDriver) Close() error { return nil }
func (f *fakeDriver) Ping(context.Context) error { return nil }
func (f *fakeDriver) Type() db.DriverType { return db.Postgres }
func (f *fakeDriver) Database() string { return f.database }

func (f *fakeDriver) UseDatabase(_ context.Context, name string) error {
	f.switched = append(f.switched, name)
	f.database = name
	return nil
}

func (f *fakeDriver) Fetch(context.Context, string) (*db.Rows, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeDriver) Exec(context.Context, string) (int64, error) {
	return f.affected, f.err
}

func (f *fakeDriver) FetchDatabases(context.Context) ([]string, error) {
	return []string{"app", "logs"}, nil
}

func (f *fakeDriver) FetchTables(context.Context) ([]string, error) {
	return f.tables[f.database], nil
}

func (f *fakeDriver) FetchTableMetadata(_ context.Context, table string) (*db.TableMetadata, error) {
	return &db.TableMetadata{Name: table, RowCount: 2}, nil
}

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteAll(s string) error {
	c.text = s
	return nil
}

func newTestModel(t *testing.T) (Model, *fakeDriver, *fakeClipboard) {
	t.Helper()
	d := &fakeDriver{
		database: "postgres",
		tables:   map[string][]string{"app": {"users", "orders"}},
		rows: &db.Rows{
			Headers: []string{"id", "name"},
			Values: [][]db.CellValue{
				{db.Int(1), db.Text("ada")},
				{db.Int(2), db.Text("bob")},
			},
		},
	}
	cb := &fakeClipboard{}
	m := NewModel(Options{
		Connection: "local",
		Driver:     d,
		Databases:  []string{"app", "logs"},
		State:      appstate.New(nil),
		Clipboard:  cb,
	})
	return m, d, cb
}

// press feeds keys through the resolver and router, one event each.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		next, c := m.handleKey(keymap.Pressed(k))
		m = next.(Model)
		cmd = c
	}
	return m, cmd
}

func typeQuery(t *testing.T, m Model, sql string) Model {
	t.Helper()
	m, _ = press(t, m, "i")
	for _, r := range sql {
		m, _ = press(t, m, string(r))
	}
	m, _ = press(t, m, "esc")
	return m
}

// finish runs the query command synchronously and feeds its result back.
func finish(t *testing.T, m Model, sql string) Model {
	t.Helper()
	msg := m.executeQueryCmd(sql)()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestToggleFocusCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	want := []keymap.Focus{keymap.FocusEditor, keymap.FocusTable, keymap.FocusSidebar}
	for _, f := range want {
		m, _ = press(t, m, "tab")
		if m.Focus() != f {
			t.Fatalf("focus = %s, want %s", m.Focus(), f)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestEditorTyping(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "tab")
	m = typeQuery(t, m, "select q?")

	if got := m.editor.Content(); got != "select q?" {
		t.Fatalf("content = %q", got)
	}
	if m.resolver.Mode().Kind != command.Normal {
		t.Errorf("mode = %s, want NORMAL", m.resolver.Mode())
	}
	if m.showHelp {
		t.Error("? typed in insert mode must not open help")
	}
}

func TestEditorModeFollowsResolver(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "tab")
	m = typeQuery(t, m, "select 1")

	m, _ = press(t, m, "0", "v", "e", "y")
	if got := m.editor.Register(); got != "select" {
		t.Fatalf("register = %q", got)
	}
	m, _ = press(t, m, "d", "d")
	if got := m.editor.Content(); got != "" {
		t.Fatalf("dd left %q", got)
	}
	if m.editor.Mode().Kind != command.Normal {
		t.Errorf("editor mode = %s", m.editor.Mode())
	}
}

func TestExecuteQuery(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(t, m, "tab")
	m = typeQuery(t, m, "select * from users")

	m, cmd := press(t, m, "f5")
	if cmd == nil {
		t.Fatal("f5 should start the query")
	}
	if m.table.State() != resulttable.Loading {
		t.Fatalf("table state = %v, want Loading", m.table.State())
	}

	m = finish(t, m, "select * from users")
	if m.table.State() != resulttable.Idle {
		t.Fatalf("table state = %v, want Idle", m.table.State())
	}
	if m.table.RowCount() != 2 {
		t.Errorf("rows = %d, want 2", m.table.RowCount())
	}
	if got := len(m.state.History("local")); got != 1 {
		t.Errorf("history = %d entries, want 1", got)
	}
	if _, ok := m.state.Stats(); !ok {
		t.Error("stats should be recorded")
	}
}

func TestExecuteEmptyQueryIsNoOp(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, cmd := press(t, m, "f5")
	if cmd != nil {
		t.Fatal("empty editor should not run anything")
	}
	if m.table.State() != resulttable.Idle {
		t.Fatalf("state = %v", m.table.State())
	}
}

func TestExecuteQueryError(t *testing.T) {
	m, d, _ := newTestModel(t)
	d.err = errors.New("relation \"nope\" does not exist")

	m.table.StartLoading("select * from nope")
	m = finish(t, m, "select * from nope")
	if m.table.State() != resulttable.Failed {
		t.Fatalf("state = %v, want Failed", m.table.State())
	}
	if !strings.Contains(m.table.Err(), "does not exist") {
		t.Errorf("err = %q", m.table.Err())
	}
	h := m.state.History("local")
	if len(h) != 1 || h[0].Success {
		t.Errorf("failed query should be in history as a failure: %+v", h)
	}
}

func TestUnsupportedStatement(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.table.StartLoading("create table t (id int)")
	m = finish(t, m, "create table t (id int)")
	if m.table.State() != resulttable.Failed {
		t.Fatalf("state = %v, want Failed", m.table.State())
	}
	if !strings.Contains(m.table.Err(), query.ErrUnsupportedStatement.Error()) {
		t.Errorf("err = %q", m.table.Err())
	}
}

func TestCopyQueryToEditor(t *testing.T) {
	m, _, cb := newTestModel(t)
	m.table.StartLoading("select * from users")
	m = finish(t, m, "select * from users")

	m, _ = press(t, m, "tab", "tab")
	m, _ = press(t, m, "C")
	if got := m.editor.Content(); got != "select * from users" {
		t.Fatalf("editor = %q", got)
	}
	if cb.text != "select * from users" {
		t.Errorf("clipboard = %q", cb.text)
	}
	if got := m.table.Status(); got != "Copied query to editor" {
		t.Errorf("status = %q", got)
	}
}

func TestRunSelectedHistoryQuery(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.table.StartLoading("select 1")
	m = finish(t, m, "select 1")

	m, _ = press(t, m, "tab", "tab", "3", "j")
	m, cmd := press(t, m, "R")
	if cmd == nil {
		t.Fatal("R should run the history query")
	}
	if got := m.editor.Content(); got != "select 1" {
		t.Errorf("editor = %q", got)
	}
	if m.table.State() != resulttable.Loading {
		t.Errorf("state = %v, want Loading", m.table.State())
	}
}

func TestSidebarLazyLoad(t *testing.T) {
	m, d, _ := newTestModel(t)
	m, _ = press(t, m, "down")
	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("expanding a database should fetch its tables")
	}
	if m.loadingSchema != 1 {
		t.Fatalf("loadingSchema = %d", m.loadingSchema)
	}

	next, _ := m.Update(m.fetchTablesCmd("app")())
	m = next.(Model)
	if m.loadingSchema != 0 {
		t.Errorf("loadingSchema = %d after load", m.loadingSchema)
	}
	if len(d.switched) != 1 || d.switched[0] != "app" {
		t.Errorf("driver should switch to app, got %v", d.switched)
	}
	if m.sidebar.Root().FindByID("tbl_app_orders") == nil {
		t.Fatal("tables should be in the tree")
	}

	m, _ = press(t, m, "down", "down", "enter")
	node, _ := m.sidebar.Selected()
	if node.ID != "tbl_app_users" {
		t.Fatalf("selected %s", node.ID)
	}
	next, _ = m.Update(m.fetchMetadataCmd("app", "users")())
	m = next.(Model)
	if got := m.sidebar.Root().FindByID("tbl_app_users").Label; got != "users (2 rows)" {
		t.Errorf("label = %q", got)
	}
}

func TestSidebarLoadError(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.loadingSchema = 1
	next, _ := m.Update(tablesLoadedMsg{Database: "app", Err: errors.New("permission denied")})
	m = next.(Model)
	if m.statusErr != "permission denied" {
		t.Errorf("statusErr = %q", m.statusErr)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "Key Maps") {
		t.Error("help overlay should be rendered")
	}

	m, _ = press(t, m, "j", "q")
	if m.showHelp {
		t.Fatal("q should close help")
	}
	if _, cmd := press(t, m, "j"); cmd != nil {
		t.Fatal("help keys should not leak")
	}
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t)
	if m.View() != "Loading..." {
		t.Fatal("view before the first size message should be a placeholder")
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	view := m.View()
	for _, want := range []string{"Tables", "Query [NORMAL]", "Results", "app"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModeLabel(t *testing.T) {
	tests := []struct {
		mode command.Mode
		want string
	}{
		{command.NormalMode, "[NORMAL]"},
		{command.InsertMode, "[INSERT]"},
		{command.VisualMode, "[VISUAL]"},
		{command.OperatorMode(command.OpYank), "[OP y]"},
	}
	for _, tt := range tests {
		if got := modeLabel(tt.mode); got != tt.want {
			t.Errorf("modeLabel(%s) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestWriteRefreshesSidebarMetadata(t *testing.T) {
	m, d, _ := newTestModel(t)
	next, _ := m.Update(m.fetchTablesCmd("app")())
	m = next.(Model)
	next, _ = m.Update(m.fetchMetadataCmd("app", "users")())
	m = next.(Model)
	if _, ok := m.sidebar.Cache().Get("app", "users"); !ok {
		t.Fatal("metadata should be cached")
	}

	d.affected = 1
	m.table.StartLoading("update users set name = 'x'")
	m = finish(t, m, "update users set name = 'x'")
	if m.table.State() != resulttable.Idle {
		t.Fatalf("state = %v: %s", m.table.State(), m.table.Err())
	}
	if _, ok := m.sidebar.Cache().Get("app", "users"); ok {
		t.Error("a write should drop cached metadata")
	}
	if got := m.sidebar.Root().FindByID("tbl_app_users").Label; got != "users" {
		t.Errorf("label = %q, want the stale row count gone", got)
	}
}

func TestSelectKeepsSidebarMetadata(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(m.fetchTablesCmd("app")())
	m = next.(Model)
	next, _ = m.Update(m.fetchMetadataCmd("app", "users")())
	m = next.(Model)

	m.table.StartLoading("select * from users")
	m = finish(t, m, "select * from users")
	if _, ok := m.sidebar.Cache().Get("app", "users"); !ok {
		t.Error("a read should keep cached metadata")
	}
}

func TestStatusBarModeHint(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	m = next.(Model)
	hint := command.NormalMode.Hint()

	if strings.Contains(m.renderStatusBar(), hint) {
		t.Error("mode hint is for the editor only")
	}
	m, _ = press(t, m, "tab")
	if !strings.Contains(m.renderStatusBar(), hint) {
		t.Errorf("status bar missing %q", hint)
	}
	m, _ = press(t, m, "i")
	if !strings.Contains(m.renderStatusBar(), command.InsertMode.Hint()) {
		t.Error("hint should follow the mode")
	}
}

func TestSessionDatabaseDoesNotWaitForQuery(t *testing.T) {
	d := &fakeDriver{database: "postgres"}
	s := newSession(d)
	s.mu.Lock()
	defer s.mu.Unlock()

	done := make(chan string, 1)
	go func() { done <- s.Database() }()
	select {
	case got := <-done:
		if got != "postgres" {
			t.Errorf("Database() = %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Database() blocked on the driver lock")
	}
}

func TestSessionTracksSwitch(t *testing.T) {
	d := &fakeDriver{database: "postgres"}
	s := newSession(d)
	if _, err := s.FetchTables(context.Background(), "app"); err != nil {
		t.Fatalf("FetchTables: %v", err)
	}
	if got := s.Database(); got != "app" {
		t.Errorf("Database() = %q, want app", got)
	}
}
