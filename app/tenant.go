package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tindevelopers/tinadmin-saas-base/internal/daemon"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/tenant"
)

func init() { //nolint: gochecknoinits
	tenantCreateCmd.Flags().StringVar(&tenantName, "name", "", "tenant name")
	tenantCreateCmd.Flags().StringVar(&tenantDomain, "domain", "", "unique tenant domain")
	tenantCreateCmd.Flags().StringSliceVar(&tenantFeatures, "features", nil, "enabled features")
	_ = tenantCreateCmd.MarkFlagRequired("domain")

	workspaceCreateCmd.Flags().StringVar(&tenantName, "name", "", "workspace name")

	tenantCmd.AddCommand(tenantCreateCmd, tenantFeaturesCmd, workspaceCreateCmd)
	rootCmd.AddCommand(tenantCmd)
}

var (
	tenantName     string
	tenantDomain   string
	tenantFeatures []string

	tenantCmd = &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants, their features and workspaces",
	}

	tenantCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			t, err := tenant.Create(engine.DB, tenantName, tenantDomain, tenantFeatures)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.ID)

			return nil
		},
	}

	tenantFeaturesCmd = &cobra.Command{
		Use:   "set-features tenant-id [feature...]",
		Short: "Replace the features of a tenant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			if err = tenant.SetFeatures(engine.DB, args[0], args[1:]); err != nil {
				return err
			}

			if err = engine.InvalidateTenant(context.Background(), args[0]); err != nil {
				return err
			}

			warnLocalCache(cmd, engine)

			return nil
		},
	}

	workspaceCreateCmd = &cobra.Command{
		Use:   "add-workspace tenant-id slug",
		Short: "Create a workspace inside a tenant",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			ws, err := tenant.CreateWorkspace(engine.DB, args[0], tenantName, args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ws.ID)

			return nil
		},
	}
)
