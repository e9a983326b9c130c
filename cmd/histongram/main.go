package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"histongram/internal/config"
	"histongram/internal/logging"
	"histongram/internal/store"
	"histongram/internal/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the global flags and the resources built from them.
type app struct {
	cfgFile string
	dbPath  string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		cfg:    config.Default(),
		logger: zap.NewNop(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "histongram",
		Short: "Count n-grams in text",
		Long: `histongram counts how often every run of n consecutive tokens occurs
in one or more documents, prints the most frequent ones, and keeps named
snapshots of the counts in a SQLite database for later merging.`,
		Version:           version.Get().Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "histongram.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "database", "", "snapshot database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(countCmd(a))
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(mergeCmd(a))
	rootCmd.AddCommand(versionCmd(a))

	return rootCmd
}

// setup loads the configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database = a.dbPath
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config", a.cfgFile),
		zap.String("database", cfg.Database),
		zap.String("command", cmd.Name()))

	return nil
}

// openStore opens the snapshot database named by the configuration.
func (a *app) openStore() (store.Store, error) {
	s, err := store.NewSQLite(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database %s: %w", a.cfg.Database, err)
	}
	return s, nil
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.stdout, version.Get().String())
			return err
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
