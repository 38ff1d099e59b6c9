// Package role provides CRUD operations for roles, their permissions and user assignments.
package role

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/auth"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/models"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when attempting to create a role with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleAlreadyExists is returned when attempting to create a role that already exists.
	ErrRoleAlreadyExists = errors.New("role already exists")
	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPermissionNotFound is returned when assigning a permission that is not stored.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a role by its name.
func Get(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var role models.Role
	result := db.Where(nameQueryPattern, name).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, result.Error
	}

	return &role, nil
}

// Create creates a new role.
func Create(db *gorm.DB, name, description string, isSystem bool) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var existing models.Role
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrRoleAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	role := &models.Role{
		Name:        name,
		Description: description,
		IsSystem:    isSystem,
	}

	if err := db.Create(role).Error; err != nil {
		return nil, err
	}

	return role, nil
}

// EnsurePermissions stores every permission that is not stored yet.
func EnsurePermissions(db *gorm.DB, perms []permission.Permission) error {
	if db == nil {
		return ErrDBNil
	}

	for _, p := range perms {
		row := models.Permission{Name: p.String(), Resource: p.Resource(), Action: p.Action()}
		if err := db.Where(nameQueryPattern, row.Name).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("ensure permission %q: %w", p, err)
		}
	}

	return nil
}

// SetPermissions replaces the permissions of a role. Every name must be a stored permission.
func SetPermissions(db *gorm.DB, roleID string, names []string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, "id = ?", roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return err
		}

		var perms []models.Permission
		if err := tx.Where("name IN ?", names).Find(&perms).Error; err != nil {
			return err
		}

		if len(perms) != len(unique(names)) {
			return fmt.Errorf("%w: role %q", ErrPermissionNotFound, role.Name)
		}

		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		for _, p := range perms {
			if err := tx.Create(&models.RolePermission{RoleID: roleID, PermissionID: p.ID}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Permissions returns the permission names of a role, sorted.
func Permissions(db *gorm.DB, roleID string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var names []string
	err := db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	return names, nil
}

// AssignUser sets the role of a user. A nil roleID removes the role.
func AssignUser(db *gorm.DB, userID string, roleID *string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Update("role_id", roleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UserGrant returns the role name and permissions of a user.
// A user without a role yields an empty grant; an unknown user yields ErrUserNotFound.
func UserGrant(db *gorm.DB, userID string) (auth.RoleGrant, error) {
	if db == nil {
		return auth.RoleGrant{}, ErrDBNil
	}

	var user models.User
	result := db.Preload("Role").First(&user, "id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return auth.RoleGrant{}, ErrUserNotFound
		}
		return auth.RoleGrant{}, result.Error
	}

	if user.RoleID == nil || user.Role == nil {
		return auth.RoleGrant{Permissions: []string{}}, nil
	}

	names, err := Permissions(db, *user.RoleID)
	if err != nil {
		return auth.RoleGrant{}, err
	}

	return auth.RoleGrant{RoleName: user.Role.Name, Permissions: names}, nil
}

// Store adapts the role queries to auth.RoleStore.
type Store struct {
	db *gorm.DB
}

// NewStore creates a role store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetUserRoleAndPermissions implements auth.RoleStore.
func (s *Store) GetUserRoleAndPermissions(ctx context.Context, userID string) (auth.RoleGrant, error) {
	if s.db == nil {
		return auth.RoleGrant{}, ErrDBNil
	}

	return UserGrant(s.db.WithContext(ctx), userID)
}

func unique(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}

	return out
}
