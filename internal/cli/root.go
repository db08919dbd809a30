// Package cli wires the lazyfilter commands.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/rebeliceyang/lazyfilter/internal/config"
	"github.com/rebeliceyang/lazyfilter/internal/logging"
	"github.com/spf13/cobra"
)

// app carries state shared by every command
type app struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *logging.Logger
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "lazyfilter",
		Short: "Filter tabular data with chip-style filters",
		Long: `lazyfilter loads rows from CSV files, SQLite or PostgreSQL, applies
category filters (is / include / contains and their negations) combined
with an all/any match type, and prints the visible rows.

Filters can be saved as presets, produced by a natural-language resolver,
and every run is recorded in a local history.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default is $HOME/.config/lazyfilter/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug/info/warn/error)")

	root.AddCommand(
		newFilterCommand(a),
		newPresetsCommand(a),
		newHistoryCommand(a),
		newPasswordCommand(a),
	)

	return root
}

func (a *app) init() error {
	cfg, err := config.LoadFile(a.configFile)
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		logger = logging.NopLogger()
	}
	a.logger = logger
	return nil
}
