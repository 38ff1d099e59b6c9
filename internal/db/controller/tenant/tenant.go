// Package tenant provides CRUD operations for tenants and their workspaces.
package tenant

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/db/models"
)

var (
	// ErrTenantNotFound is returned when a tenant is not found.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantDomainEmpty is returned when attempting to create a tenant without a domain.
	ErrTenantDomainEmpty = errors.New("tenant domain cannot be empty")
	// ErrTenantAlreadyExists is returned when the domain is already taken.
	ErrTenantAlreadyExists = errors.New("tenant already exists")
	// ErrWorkspaceNotFound is returned when a workspace is not found in the tenant.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrWorkspaceSlugEmpty is returned when attempting to create a workspace without a slug.
	ErrWorkspaceSlugEmpty = errors.New("workspace slug cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a tenant by its ID.
func Get(db *gorm.DB, id string) (*models.Tenant, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tenant models.Tenant
	result := db.First(&tenant, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, result.Error
	}

	return &tenant, nil
}

// Create creates a new tenant.
func Create(db *gorm.DB, name, domain string, features []string) (*models.Tenant, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if domain == "" {
		return nil, ErrTenantDomainEmpty
	}

	var existing models.Tenant
	result := db.Where("domain = ?", domain).First(&existing)
	if result.Error == nil {
		return nil, ErrTenantAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	if features == nil {
		features = []string{}
	}

	tenant := &models.Tenant{
		Name:     name,
		Domain:   domain,
		Features: datatypes.NewJSONSlice(features),
	}

	if err := db.Create(tenant).Error; err != nil {
		return nil, err
	}

	return tenant, nil
}

// SetFeatures replaces the feature list of a tenant.
func SetFeatures(db *gorm.DB, id string, features []string) error {
	if db == nil {
		return ErrDBNil
	}

	if features == nil {
		features = []string{}
	}

	result := db.Model(&models.Tenant{}).Where("id = ?", id).Update("features", datatypes.NewJSONSlice(features))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}

	return nil
}

// Features returns the feature list of a tenant. An unknown tenant has no features.
func Features(db *gorm.DB, id string) ([]string, error) {
	tenant, err := Get(db, id)
	if errors.Is(err, ErrTenantNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	return []string(tenant.Features), nil
}

// CreateWorkspace creates a workspace inside a tenant.
func CreateWorkspace(db *gorm.DB, tenantID, name, slug string) (*models.Workspace, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrWorkspaceSlugEmpty
	}

	if _, err := Get(db, tenantID); err != nil {
		return nil, err
	}

	workspace := &models.Workspace{TenantID: tenantID, Name: name, Slug: slug}
	if err := db.Omit("Tenant").Create(workspace).Error; err != nil {
		return nil, err
	}

	return workspace, nil
}

// GetWorkspace retrieves a workspace of a tenant by its ID.
func GetWorkspace(db *gorm.DB, tenantID, workspaceID string) (*models.Workspace, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var workspace models.Workspace
	result := db.Where("tenant_id = ? AND id = ?", tenantID, workspaceID).First(&workspace)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, result.Error
	}

	return &workspace, nil
}

// Store adapts the tenant queries to auth.TenantStore.
type Store struct {
	db *gorm.DB
}

// NewStore creates a tenant store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetTenantFeatures implements auth.TenantStore.
func (s *Store) GetTenantFeatures(ctx context.Context, tenantID string) ([]string, error) {
	if s.db == nil {
		return nil, ErrDBNil
	}

	return Features(s.db.WithContext(ctx), tenantID)
}

// WorkspaceExists reports whether workspaceID belongs to tenantID.
func (s *Store) WorkspaceExists(ctx context.Context, tenantID, workspaceID string) (bool, error) {
	if s.db == nil {
		return false, ErrDBNil
	}

	_, err := GetWorkspace(s.db.WithContext(ctx), tenantID, workspaceID)
	if errors.Is(err, ErrWorkspaceNotFound) {
		return false, nil
	}

	return err == nil, err
}
