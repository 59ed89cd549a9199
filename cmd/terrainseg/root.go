package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/terrain.segment/internal/config"
	"github.com/banshee-data/terrain.segment/internal/db"
	"github.com/banshee-data/terrain.segment/internal/monitoring"
	"github.com/banshee-data/terrain.segment/internal/version"
)

var errNoDatabase = errors.New("--db is required")

// app carries state shared by every subcommand.
type app struct {
	out         io.Writer
	configPath  string
	logLevel    string
	logEncoding string
	dbPath      string

	cfg    *config.TuningConfig
	logger *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "terrainseg",
		Short: "Segment grid-aligned terrain points into surfaces",
		Long: `terrainseg labels grid-aligned 3D points into connected surfaces, strips
the ground, sensor errors and tiny fragments, thins the interior and writes
what is left as a VRML 2.0 point set.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to a tuning JSON file (defaults built in)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	pf.StringVar(&a.logEncoding, "log-encoding", "", "Log encoding (console, json); overrides config")
	pf.StringVar(&a.dbPath, "db", "", "SQLite database for run records")

	root.AddCommand(
		newRunCmd(a),
		newBatchCmd(a),
		newRunsCmd(a),
		newMigrateCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			},
		},
	)
	return root
}

// setup loads the tuning config and installs the zap logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.DefaultTuningConfig()
	if a.configPath != "" {
		loaded, err := config.LoadTuningConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.LogLevel = &a.logLevel
	}
	if a.logEncoding != "" {
		cfg.LogEncoding = &a.logEncoding
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := monitoring.NewZapLogger(cfg.GetLogLevel(), cfg.GetLogEncoding())
	if err != nil {
		return err
	}
	a.logger = logger
	monitoring.UseZap(logger)
	return nil
}

// openStore opens the run database, or returns nil when --db is unset.
func (a *app) openStore() (*db.DB, *db.RunStore, error) {
	if a.dbPath == "" {
		return nil, nil, nil
	}
	database, err := db.Open(a.dbPath)
	if err != nil {
		return nil, nil, err
	}
	return database, db.NewRunStore(database), nil
}

// requireStore is openStore for commands that cannot run without a database.
func (a *app) requireStore() (*db.DB, *db.RunStore, error) {
	if a.dbPath == "" {
		return nil, nil, errNoDatabase
	}
	return a.openStore()
}
