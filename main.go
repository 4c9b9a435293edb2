package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmllt/organizeu/internal/dashboard"
	"github.com/gmllt/organizeu/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "organizeu",
	Short: "OrganizeU - track modules, tasks, credits and assignment deadlines",
	Long: `OrganizeU keeps four lists (modules, to-do tasks, course credits and
assignment deadlines) and shows a calendar of the current month.

Lists are persisted as JSON documents in the configured store: a local
directory, SQLite, PostgreSQL, S3 or Backblaze B2.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// The terminal UI owns stdout and stderr.
		if cmd == tuiCmd {
			if cfg.Log.File == "" {
				logger = zap.NewNop()
				return nil
			}
			logger, err = newLogger(cfg.Log, verbose, cfg.Log.File)
		} else {
			logger, err = newLogger(cfg.Log, verbose)
		}
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, tuiCmd, calendarCmd)
	rootCmd.AddCommand(listCommands()...)
}

// openApp opens the configured store and loads every list, the way the
// page bootstraps on load. Lists that cannot be read start empty.
func openApp(ctx context.Context) (*dashboard.App, func(), error) {
	s, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	app := dashboard.New(s, dashboard.WithLogger(logger))
	if err := app.Load(ctx); err != nil {
		logger.Warn("Some lists could not be loaded", zap.Error(err))
	}
	closeFn := func() {
		if err := store.Close(s); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}
	return app, closeFn, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
