package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/hourtree/internal/config"
	"github.com/balkashynov/hourtree/internal/db"
	"github.com/balkashynov/hourtree/internal/timer"
	"github.com/balkashynov/hourtree/internal/tree"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every command shares: settings, the store opened for
// this invocation, the tree view over it and the process's single timer.
type app struct {
	configPath string
	dbPath     string

	cfg   *config.Config
	store *db.Store
	tasks *tree.Manager
	timer *timer.Timer
}

// open loads configuration and acquires the store. It runs at most once
// per invocation.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	level, err := db.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	store, err := db.Open(cfg.Database, db.WithLogLevel(level))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.store = store
	a.tasks = tree.New(store)
	a.timer = timer.New(store)

	// Pick up a timespan left running by a previous invocation.
	if err := a.timer.Resume(); err != nil {
		return fmt.Errorf("failed to load running timer: %w", err)
	}

	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.dbPath != "" {
		path, err := config.ExpandHome(a.dbPath)
		if err != nil {
			return nil, err
		}
		cfg.Database = path
	}
	return cfg, nil
}

// close releases the store. Safe to call when nothing was opened.
func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// withDB wraps a command function to open the store first
func (a *app) withDB(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hourtree",
		Short: "A hierarchical work-hours tracker",
		Long: `hourtree tracks the time you spend on a tree of tasks.
Organise work as Work/Client/Feature, run a timer against any task and see
hours rolled up through the hierarchy, all from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.hourtree/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Database file (overrides config)")

	rootCmd.AddCommand(
		newAddCmd(a),
		newRemoveCmd(a),
		newListCmd(a),
		newPathCmd(a),
		newStartCmd(a),
		newStopCmd(a),
		newStatusCmd(a),
		newHoursCmd(a),
		newLogCmd(a),
		newMoveCmd(a),
		newWeekCmd(a),
		newReportCmd(a),
		newConfigCmd(a),
		newUICmd(a),
		newHelpCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hourtree %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command and releases the store exactly once,
// whether or not the command succeeded.
func Execute() error {
	return execute(&app{}, nil)
}

// execute runs the CLI with args (os.Args when nil).
func execute(a *app, args []string) error {
	rootCmd := newRootCmd(a)
	if args != nil {
		rootCmd.SetArgs(args)
	}

	err := rootCmd.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close database: %w", cerr)
	}
	return err
}
