package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tindevelopers/tinadmin-saas-base/internal/daemon"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/role"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/user"
)

func init() { //nolint: gochecknoinits
	userCreateCmd.Flags().StringVar(&userID, "id", "", "user id from the identity provider (generated when empty)")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCreateCmd.Flags().StringVar(&userFullName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userTenant, "tenant", "", "home tenant id")
	_ = userCreateCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd, userAssignRoleCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	userID       string
	userEmail    string
	userFullName string
	userTenant   string

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage users and their roles",
	}

	userCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a user without a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			var tenantID *string
			if userTenant != "" {
				tenantID = &userTenant
			}

			u, err := user.Create(engine.DB, userID, userEmail, userFullName, tenantID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), u.ID)

			return nil
		},
	}

	userAssignRoleCmd = &cobra.Command{
		Use:   "assign-role user-id [role-name]",
		Short: "Assign a role to a user; without a role name the role is removed",
		Args:  cobra.RangeArgs(1, 2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			var roleID *string
			if len(args) == 2 { //nolint:mnd
				r, err := role.Get(engine.DB, args[1])
				if err != nil {
					return err
				}

				roleID = &r.ID
			}

			if err = role.AssignUser(engine.DB, args[0], roleID); err != nil {
				return err
			}

			if err = engine.InvalidateUser(context.Background(), args[0]); err != nil {
				return err
			}

			warnLocalCache(cmd, engine)

			return nil
		},
	}
)

// warnLocalCache tells the operator that an invalidation on a process-local cache
// does not reach running servers.
func warnLocalCache(cmd *cobra.Command, engine *daemon.Engine) {
	if engine.Cache == nil || engine.CacheShared() {
		return
	}

	log.Warn().Str("backend", cfg.Cache.Backend).Msg("permission cache is process-local, running servers keep cached grants")
	fmt.Fprintf(cmd.ErrOrStderr(),
		"warning: the %s cache is process-local, running servers apply this change after cache.ttl (%s)\n",
		cfg.Cache.Backend, cfg.Cache.TTL)
}
