package db

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/db/controller/role"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

// Names of the roles created by Seed.
const (
	RolePlatformAdmin     = "Platform Admin"
	RoleOrganizationAdmin = "Organization Admin"
	RoleViewer            = "Viewer"
)

type defaultRole struct {
	name        string
	description string
	grants      func(*permission.Catalogue) []permission.Permission
}

var defaultRoles = []defaultRole{ //nolint:gochecknoglobals
	{
		name:        RolePlatformAdmin,
		description: "Full access to every tenant",
		grants:      func(c *permission.Catalogue) []permission.Permission { return c.All() },
	},
	{
		name:        RoleOrganizationAdmin,
		description: "Manages a single organization",
		grants: func(*permission.Catalogue) []permission.Permission {
			return []permission.Permission{
				permission.TenantsRead,
				permission.UsersRead, permission.UsersWrite, permission.UsersDelete,
				permission.RolesRead,
				permission.WorkspacesRead, permission.WorkspacesWrite,
				permission.BillingRead, permission.BillingManage,
				permission.SettingsRead, permission.SettingsWrite,
				permission.AuditLogsRead,
				permission.AnalyticsRead,
			}
		},
	},
	{
		name:        RoleViewer,
		description: "Read-only access",
		grants: func(c *permission.Catalogue) []permission.Permission {
			var out []permission.Permission
			for _, p := range c.All() {
				if p.Action() == "read" {
					out = append(out, p)
				}
			}

			return out
		},
	},
}

// Seed stores the catalogue and creates the default roles that do not exist yet.
// Existing roles keep their permissions.
func Seed(db *gorm.DB, catalogue *permission.Catalogue) error {
	if err := role.EnsurePermissions(db, catalogue.All()); err != nil {
		return err
	}

	for _, d := range defaultRoles {
		r, err := role.Create(db, d.name, d.description, true)
		if errors.Is(err, role.ErrRoleAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed role %q: %w", d.name, err)
		}

		perms := d.grants(catalogue)

		names := make([]string, len(perms))
		for i, p := range perms {
			names[i] = p.String()
		}

		if err := role.SetPermissions(db, r.ID, names); err != nil {
			return fmt.Errorf("seed role %q: %w", d.name, err)
		}

		log.Info().Str("role", d.name).Int("permissions", len(names)).Msg("seeded role")
	}

	return nil
}
