package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/maloquacious/babynames/internal/config"
	"github.com/maloquacious/babynames/internal/logger"
	"github.com/maloquacious/babynames/internal/store/sqlite"
	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var (
	version   = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
	buildDate = ""
)

// skipConfig marks commands that run on built-in defaults and flags only.
const skipConfig = "babynames/skip-config"

// app carries global flags and the state resolved from them.
type app struct {
	cfgFile  string
	dbPath   string
	dataDir  string
	logLevel string
	format   string

	cfg config.Config
	log logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "babynames",
		Short:        "Historical baby name frequency store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data", "", "directory holding the data files")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "", "output format (text|json)")

	// db command group
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}
	dbCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create the database and its schema",
			Args:  cobra.NoArgs,
			RunE:  a.runDBCreate,
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Verify schema state and version",
			Args:  cobra.NoArgs,
			RunE:  a.runDBVerify,
		},
	)

	rootCmd.AddCommand(
		dbCmd,
		&cobra.Command{
			Use:   "load [dir]",
			Short: "Load every data file in a directory",
			Args:  cobra.MaximumNArgs(1),
			RunE:  a.runLoad,
		},
		&cobra.Command{
			Use:   "search NAME",
			Short: "List every record for a name",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runSearch,
		},
		&cobra.Command{
			Use:   "add NAME YEAR GENDER COUNT",
			Short: "Add a new record",
			Args:  cobra.ExactArgs(4),
			RunE:  a.runAdd,
		},
		&cobra.Command{
			Use:   "update NAME YEAR GENDER COUNT",
			Short: "Replace the count of a record",
			Args:  cobra.ExactArgs(4),
			RunE:  a.runUpdate,
		},
		&cobra.Command{
			Use:   "delete NAME YEAR GENDER",
			Short: "Delete a record",
			Args:  cobra.ExactArgs(3),
			RunE:  a.runDelete,
		},
		&cobra.Command{
			Use:   "stats NAME",
			Short: "Show first year, peak year and top years for a name",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runStats,
		},
		&cobra.Command{
			Use:   "source",
			Short: "Show where to download the national data files",
			Args:  cobra.NoArgs,
			RunE:  a.runSource,
		},
		&cobra.Command{
			Use:         "version",
			Short:       "Print the version",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{skipConfig: "true"},
			RunE:        a.runVersion,
		},
	)

	return rootCmd
}

// resolve layers flags over the loaded config and sets up logging.
// Commands annotated with skipConfig never read config files or the
// environment.
func (a *app) resolve(cmd *cobra.Command) error {
	cfg := config.Default()
	if cmd.Annotations[skipConfig] != "true" {
		var err error
		if cfg, err = config.Load(a.cfgFile); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("data") {
		cfg.DataDir = a.dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("format") {
		cfg.Format = a.format
	}

	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", cfg.Format)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewStdLogger(cmd.ErrOrStderr(), level)
	return nil
}

// withStore opens the database, ensures the schema and runs fn.
func (a *app) withStore(cmd *cobra.Command, fn func(ctx context.Context, s *sqlite.SQLiteStore) error) error {
	s := sqlite.New(a.cfg.DBPath, sqlite.SchemaVersion, a.log)
	if err := s.Open(); err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.log.Error("close %s: %v", a.cfg.DBPath, err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(ctx, s)
}

// emit writes v as JSON, or calls text to write the human form.
func (a *app) emit(w io.Writer, v any, text func(io.Writer)) error {
	if a.cfg.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func (a *app) runVersion(cmd *cobra.Command, args []string) error {
	return a.emit(cmd.OutOrStdout(), map[string]string{
		"version":       version.String(),
		"schemaVersion": sqlite.SchemaVersion,
		"buildDate":     buildDate,
	}, func(w io.Writer) {
		fmt.Fprintln(w, version.String())
	})
}
