package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	"github.com/tindevelopers/tinadmin-saas-base/internal/daemon"
)

// ErrDenied is returned by check when the permissions are not granted.
var ErrDenied = errors.New("permission denied")

func init() { //nolint: gochecknoinits
	for _, c := range []*cobra.Command{checkCmd, traceCmd} {
		c.Flags().StringVarP(&identity.user, "user", "u", "", "user id")
		c.Flags().StringVarP(&identity.tenant, "tenant", "t", "", "tenant id")
		_ = c.MarkFlagRequired("user")
	}

	checkCmd.Flags().StringVarP(&identity.workspace, "workspace", "w", "", "workspace id")
	checkCmd.Flags().BoolVar(&checkAny, "any", false, "allow when any permission is granted")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "allow only when every permission is granted")
	checkCmd.MarkFlagsMutuallyExclusive("any", "all")

	rootCmd.AddCommand(checkCmd, traceCmd)
}

var (
	identity struct {
		user      string
		tenant    string
		workspace string
	}

	checkAny bool
	checkAll bool

	checkCmd = &cobra.Command{
		Use:   "check permission...",
		Short: "Check permissions of a user, the same way the API gate does",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			perms, err := engine.Catalogue.LookupAll(args)
			if err != nil {
				return err
			}

			ctx := auth.WithUserID(context.Background(), identity.user)
			scope := auth.Scope{TenantID: identity.tenant, WorkspaceID: identity.workspace}

			var d auth.Decision

			switch {
			case checkAny:
				d = engine.Gate.CheckAnyPermission(ctx, perms, scope)
			case checkAll || len(perms) > 1:
				d = engine.Gate.CheckAllPermissions(ctx, perms, scope)
			default:
				d = engine.Gate.CheckPermission(ctx, perms[0], scope)
			}

			if d.Allowed {
				fmt.Fprintln(cmd.OutOrStdout(), "allowed")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "denied: %s\n", d.Reason)

			return ErrDenied
		},
	}

	traceCmd = &cobra.Command{
		Use:   "trace permission",
		Short: "Explain whether a permission comes from the user's role or the tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := daemon.Open(&cfg)
			if err != nil {
				return err
			}
			defer engine.Close()

			perm, err := engine.Catalogue.Lookup(args[0])
			if err != nil {
				return err
			}

			trace, err := engine.Tracer.TracePermission(context.Background(), identity.user, identity.tenant, perm)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch trace.Source {
			case auth.SourceRole:
				fmt.Fprintf(out, "%s: granted by role %q\n", perm, trace.InheritedFrom)
			case auth.SourceTenant:
				fmt.Fprintf(out, "%s: granted by tenant %s\n", perm, trace.InheritedFrom)
			default:
				fmt.Fprintf(out, "%s: not granted\n", perm)
			}

			return nil
		},
	}
)
