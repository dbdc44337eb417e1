package main

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhath/lazydata/internal/config"
	"github.com/nhath/lazydata/internal/ui"
)

type rootOptions struct {
	debug      bool
	connection string
	configPath string

	logFile io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "lazydata",
		Short: "Terminal client for PostgreSQL, MySQL and SQLite",
		Long: `lazydata browses databases and runs ad-hoc queries from the terminal.

Running 'lazydata' with no subcommand opens the saved connection picked by
--connection, the configured default, or the only saved connection.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f, err := setupLogging(opts.debug, cmd.ErrOrStderr())
			opts.logFile = f
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logFile != nil {
				opts.logFile.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			return ui.Run(cmd.Context(), ui.RunOptions{
				Config:     cfg,
				Connection: opts.connection,
				Progress:   cmd.ErrOrStderr(),
			})
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "write debug logs to the lazydata state directory")
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/lazydata/config.toml)")
	cmd.Flags().StringVarP(&opts.connection, "connection", "c", "", "saved connection to open")

	cmd.AddCommand(newConnectionsCmd(opts))
	return cmd
}

// setupLogging sends the log package to debug.log under the XDG state
// directory, or discards it so nothing is written over the TUI.
func setupLogging(debug bool, w io.Writer) (io.Closer, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	path, err := xdg.StateFile(filepath.Join("lazydata", "debug.log"))
	if err != nil {
		return nil, fmt.Errorf("locate debug log: %w", err)
	}
	f, err := tea.LogToFile(path, "debug")
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	fmt.Fprintf(w, "debug log: %s\n", path)
	return f, nil
}
