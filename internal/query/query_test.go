package query

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nhath/lazydata/internal/appstate"
	"github.com/nhath/lazydata/internal/db"
)

type fakeExecutor struct {
	rows     *db.Rows
	affected int64
	err      error
	fetched  int
	execed   int
}

func (f *fakeExecutor) Fetch(context.Context, string) (*db.Rows, error) {
	f.fetched++
	return f.rows, f.err
}

func (f *fakeExecutor) Exec(context.Context, string) (int64, error) {
	f.execed++
	return f.affected, f.err
}

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func newPipeline() (*Pipeline, *appstate.State) {
	st := appstate.New(nil)
	return &Pipeline{State: st, Now: stepClock(12 * time.Millisecond)}, st
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want Kind
	}{
		{"select * from t", Select},
		{"  INSERT into t values (1)", Insert},
		{"Update t set x=1", Update},
		{"DELETE FROM t", Delete},
		{"vacuum t", Unknown},
		{"\n\tselect 1", Select},
		{"selected", Unknown},
		{"", Unknown},
		{"select\n1", Select},
	}
	for _, tt := range tests {
		if got := Classify(tt.sql); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}

func TestExecuteSelect(t *testing.T) {
	p, st := newPipeline()
	exec := &fakeExecutor{rows: &db.Rows{
		Headers: []string{"id", "name"},
		Values: [][]db.CellValue{
			{db.Int(1), db.Text("a")},
			{db.Int(2), db.Null()},
		},
	}}

	res, err := p.Execute(context.Background(), exec, "dev", "select * from t")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	data, ok := res.(Data)
	if !ok {
		t.Fatalf("result = %T, want Data", res)
	}
	if data.RowCount != 2 || len(data.Headers) != 2 {
		t.Errorf("data = %+v", data)
	}
	if want := "Successfully run. Total query runtime: 12 ms.\n2 rows fetched."; data.Message != want {
		t.Errorf("message = %q, want %q", data.Message, want)
	}

	stats, ok := st.Stats()
	if !ok || stats.Rows != 2 || stats.Elapsed != 12*time.Millisecond {
		t.Errorf("stats = %+v, %v", stats, ok)
	}
	h := st.History("dev")
	if len(h) != 1 || !h[0].Success || h[0].RowsAffected != 2 {
		t.Errorf("history = %+v", h)
	}
}

func TestExecuteEmptySelect(t *testing.T) {
	p, _ := newPipeline()
	exec := &fakeExecutor{rows: &db.Rows{Headers: []string{"id"}}}

	res, err := p.Execute(context.Background(), exec, "dev", "select id from t where false")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	data := res.(Data)
	if len(data.Headers) != 0 || len(data.Values) != 0 || data.RowCount != 0 {
		t.Errorf("data = %+v", data)
	}
	if !strings.Contains(data.Message, "0 rows") {
		t.Errorf("message = %q", data.Message)
	}
}

func TestExecuteUpdate(t *testing.T) {
	p, st := newPipeline()
	exec := &fakeExecutor{affected: 3}

	res, err := p.Execute(context.Background(), exec, "dev", "UPDATE t SET x = 1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	aff, ok := res.(Affected)
	if !ok {
		t.Fatalf("result = %T, want Affected", res)
	}
	if aff.RowCount != 3 || aff.Kind != Update {
		t.Errorf("affected = %+v", aff)
	}
	if want := "UPDATE 3 rows affected.\nQuery completed in 12 msec."; aff.Message != want {
		t.Errorf("message = %q, want %q", aff.Message, want)
	}
	if exec.fetched != 0 || exec.execed != 1 {
		t.Errorf("fetch/exec calls = %d/%d", exec.fetched, exec.execed)
	}

	h := st.History("dev")
	if len(h) != 1 || !h[0].Success || h[0].RowsAffected != 3 {
		t.Errorf("history = %+v", h)
	}
}

func TestExecuteBackendError(t *testing.T) {
	p, st := newPipeline()
	backend := db.WrapQueryError(errors.New("relation does not exist"))
	exec := &fakeExecutor{err: backend}

	_, err := p.Execute(context.Background(), exec, "dev", "select * from nope")
	if err != backend {
		t.Fatalf("err = %v, want backend error unchanged", err)
	}
	if _, ok := st.Stats(); ok {
		t.Error("failed query recorded stats")
	}
	h := st.History("dev")
	if len(h) != 1 || h[0].Success || h[0].RowsAffected != 0 {
		t.Errorf("history = %+v", h)
	}
}

func TestExecuteUnsupported(t *testing.T) {
	p, st := newPipeline()
	exec := &fakeExecutor{}

	_, err := p.Execute(context.Background(), exec, "dev", "vacuum t")
	if !errors.Is(err, ErrUnsupportedStatement) {
		t.Fatalf("err = %v, want ErrUnsupportedStatement", err)
	}
	if exec.fetched+exec.execed != 0 {
		t.Error("unsupported statement reached the executor")
	}
	if h := st.History("dev"); len(h) != 1 || h[0].Success {
		t.Errorf("history = %+v", h)
	}
}

func TestExecuteEmpty(t *testing.T) {
	p, st := newPipeline()
	if _, err := p.Execute(context.Background(), &fakeExecutor{}, "dev", "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v", err)
	}
	if len(st.History("")) != 0 {
		t.Error("empty query was recorded")
	}
}

func TestMessagesGroupThousands(t *testing.T) {
	got := DataMessage(1500*time.Millisecond, 12345)
	if !strings.Contains(got, "1,500 ms") || !strings.Contains(got, "12,345 rows") {
		t.Errorf("message = %q", got)
	}
}

func TestDriverSatisfiesExecutor(t *testing.T) {
	var _ Executor = db.Driver(nil)
}
