package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/lazydata/internal/appstate"
	"github.com/nhath/lazydata/internal/config"
	"github.com/nhath/lazydata/internal/db"
	"github.com/nhath/lazydata/internal/history"
	"github.com/nhath/lazydata/internal/resulttable"
)

// ErrNoDatabases is returned when the server lists nothing to browse.
var ErrNoDatabases = errors.New("no databases found on the server")

// RunOptions selects what Run connects to.
type RunOptions struct {
	Config     *config.Config
	Connection string
	// Progress receives the startup spinner; nil discards it.
	Progress io.Writer
}

// Run connects, loads history and runs the TUI until the user quits.
// Pending history is saved on the way out.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	conn, err := cfg.Resolve(opts.Connection)
	if err != nil {
		return err
	}
	driverType, err := conn.DriverType()
	if err != nil {
		return err
	}
	driver, err := db.NewDriver(driverType)
	if err != nil {
		return err
	}

	var databases []string
	err = withSpinner(progress, "Connecting to "+conn.Name, func() error {
		if err := driver.Connect(ctx, conn.Params()); err != nil {
			return err
		}
		databases, err = driver.FetchDatabases(ctx)
		return err
	})
	if err != nil {
		driver.Close()
		return err
	}
	if len(databases) == 0 {
		driver.Close()
		return ErrNoDatabases
	}
	fmt.Fprintf(progress, "Found %d databases\n", len(databases))

	store, loaded := openHistory(cfg.HistoryRetentionDays)
	state := appstate.New(loaded)

	model := NewModel(Options{
		Config:     cfg,
		Connection: conn.Name,
		Driver:     driver,
		Databases:  databases,
		State:      state,
		Clipboard:  resulttable.ClipboardFunc(clipboard.WriteAll),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	if store != nil {
		pending := state.Pending()
		if err := store.Save(pending); err != nil {
			log.Printf("history: %v", err)
		} else {
			state.MarkSaved(pending)
		}
		store.Close()
	}
	if err := model.session.Close(); err != nil {
		log.Printf("close connection: %v", err)
	}
	return runErr
}

// openHistory opens the history file. Without it the session still runs,
// it just is not persisted.
func openHistory(retentionDays int) (*history.Store, []history.Entry) {
	store, err := history.NewStore(retentionDays)
	if err != nil {
		log.Printf("history disabled: %v", err)
		return nil, nil
	}
	entries, err := store.Load()
	if err != nil {
		log.Printf("history: %v", err)
	}
	log.Printf("history: %d entries from %s", len(entries), store.Path())
	return store, entries
}

// withSpinner animates a spinner line on w while fn runs.
func withSpinner(w io.Writer, label string, fn func() error) error {
	s := spinner.Dot
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(s.FPS)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(w, "\r%s %s", s.Frames[i%len(s.Frames)], label)
			select {
			case <-done:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
	err := fn()
	close(done)
	<-finished
	return err
}
