// Package commands holds the codebros command line.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codebros/codebros-backend/src/config"
	"github.com/codebros/codebros-backend/src/lib"
	"github.com/codebros/codebros-backend/src/log"
	"github.com/codebros/codebros-backend/src/storage"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "codebros",
	Short: "CodeBros - developer social network backend",
	Long: `CodeBros serves the REST API behind the developer social network:
profiles, connection requests, direct messages and notifications.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("CodeBros version %s\nCommit: %s\n", Version, Commit))
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file (default: ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes the global logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log.Init(log.Config{
		Level:      log.Level(cfg.Log.Level),
		JSONOutput: cfg.Log.JSON,
	})
	return cfg, nil
}

// newStore opens the store selected by store.driver.
func newStore(ctx context.Context, cfg config.StoreConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := lib.OpenGorm(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewGormStore(db), nil
	case config.DriverMongo:
		client, db, err := lib.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewMongoStore(client, db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// openStore opens and migrates the configured store.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}
	return store, nil
}
