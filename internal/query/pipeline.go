package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nhath/lazydata/internal/appstate"
	"github.com/nhath/lazydata/internal/db"
	"github.com/nhath/lazydata/internal/history"
)

// ErrUnsupportedStatement is returned for statements Classify cannot place.
var ErrUnsupportedStatement = errors.New("unsupported statement")

// ErrEmptyQuery is returned when there is nothing to run.
var ErrEmptyQuery = errors.New("empty query")

// Executor is the execution capability of a connected backend. db.Driver
// satisfies it.
type Executor interface {
	Fetch(ctx context.Context, sql string) (*db.Rows, error)
	Exec(ctx context.Context, sql string) (int64, error)
}

// Result is either Data or Affected.
type Result interface {
	Rows() uint64
	Elapsed() time.Duration
	Summary() string
	isResult()
}

// Data is the outcome of a SELECT.
type Data struct {
	Headers  []string
	Values   [][]db.CellValue
	RowCount uint64
	Message  string
	Duration time.Duration
}

// Affected is the outcome of INSERT, UPDATE or DELETE.
type Affected struct {
	Kind     Kind
	RowCount uint64
	Message  string
	Duration time.Duration
}

func (d Data) Rows() uint64 { return d.RowCount }
func (d Data) Elapsed() time.Duration { return d.Duration }
func (d Data) Summary() string { return d.Message }
func (Data) isResult() {}
func (a Affected) Rows() uint64 { return a.RowCount }
func (a Affected) Elapsed() time.Duration { return a.Duration }
func (a Affected) Summary() string { return a.Message }
func (Affected) isResult() {}

var printer = message.NewPrinter(language.English)

// DataMessage is the human-readable summary of a fetch.
func DataMessage(elapsed time.Duration, rows uint64) string {
	return printer.Sprintf("Successfully run. Total query runtime: %d ms.\n%d rows fetched.",
		elapsed.Milliseconds(), rows)
}

// AffectedMessage is the human-readable summary of a mutation.
func AffectedMessage(kind Kind, elapsed time.Duration, rows uint64) string {
	return printer.Sprintf("%s %d rows affected.\nQuery completed in %d msec.",
		kind.String(), rows, elapsed.Milliseconds())
}

// Pipeline runs statements and records every attempt in State.
type Pipeline struct {
	State *appstate.State
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewPipeline returns a Pipeline recording into state.
func NewPipeline(state *appstate.State) *Pipeline {
	return &Pipeline{State: state, Now: time.Now}
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// Execute classifies sql and runs it on exec. Backend errors are returned
// unchanged. Success and failure both append one history entry.
func (p *Pipeline) Execute(ctx context.Context, exec Executor, connection, sql string) (Result, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil, ErrEmptyQuery
	}

	started := p.now()
	result, err := p.run(ctx, exec, sql, started)
	entry := history.Entry{
		Query:          sql,
		ConnectionName: connection,
		Timestamp:      started,
	}
	if err != nil {
		p.State.AppendHistory(entry)
		return nil, err
	}

	entry.Success = true
	entry.RowsAffected = result.Rows()
	entry.ExecutionTime = result.Elapsed()
	p.State.RecordStats(appstate.Stats{Rows: result.Rows(), Elapsed: result.Elapsed()})
	p.State.AppendHistory(entry)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, exec Executor, sql string, started time.Time) (Result, error) {
	kind := Classify(sql)
	switch {
	case kind == Select:
		rows, err := exec.Fetch(ctx, sql)
		if err != nil {
			return nil, err
		}
		elapsed := p.now().Sub(started)
		n := uint64(len(rows.Values))
		headers := rows.Headers
		if n == 0 {
			headers = nil
		}
		return Data{
			Headers:  headers,
			Values:   rows.Values,
			RowCount: n,
			Message:  DataMessage(elapsed, n),
			Duration: elapsed,
		}, nil

	case kind.Mutating():
		affected, err := exec.Exec(ctx, sql)
		if err != nil {
			return nil, err
		}
		elapsed := p.now().Sub(started)
		n := uint64(max(affected, 0))
		return Affected{
			Kind:     kind,
			RowCount: n,
			Message:  AffectedMessage(kind, elapsed, n),
			Duration: elapsed,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedStatement, firstWord(sql))
}
