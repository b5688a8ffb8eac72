package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codebros/codebros-backend/src/log"
	"github.com/codebros/codebros-backend/src/seed"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the store schema and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		store, err := openStore(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		log.WithComponent("migrate").Info().Str("store", cfg.Store.Driver).Msg("Schema is up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample developers into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")

		data, err := seed.SampleData()
		if file != "" {
			data, err = seed.ParseFile(file)
		}
		if err != nil {
			return err
		}

		ctx := context.Background()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		_, err = seed.Load(ctx, store, data)
		return err
	},
}

func init() {
	seedCmd.Flags().String("file", "", "seed file to load instead of the bundled sample data")
}
