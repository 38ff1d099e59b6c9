package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tindevelopers/tinadmin-saas-base/internal/daemon"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the tables and seed the default roles",
	RunE: func(_ *cobra.Command, _ []string) error {
		engine, err := daemon.Open(&cfg)
		if err != nil {
			return err
		}
		defer engine.Close()

		if err = db.Migrate(engine.DB); err != nil {
			return err
		}

		if err = db.Seed(engine.DB, engine.Catalogue); err != nil {
			return err
		}

		log.Info().Int("permissions", engine.Catalogue.Len()).Msg("database migrated and seeded")

		return nil
	},
}
