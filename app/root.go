// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/tindevelopers/tinadmin-saas-base/internal/config"
	"github.com/tindevelopers/tinadmin-saas-base/internal/logger"
)

var (
	configPath string // Path to the directory holding main.toml

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tinadmin",
	Short: "tinadmin resolves and enforces multi-tenant permissions",
	Long: `tinadmin resolves a user's permissions from their role and the tenant they
operate in, enforces them at a permission gate and records every decision in an audit log.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		if cfg, err = config.ReadConfig(configPath); err != nil {
			return err
		}

		return logger.Init(cfg.Log)
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
