package models

import (
	"time"

	"gorm.io/datatypes"
)

// Tenant is an organization. Its Features list holds feature flags and permission
// overrides side by side; entries containing a dot are treated as permissions.
type Tenant struct {
	// ID is the UUID of the tenant.
	ID string `gorm:"primaryKey;size:36"`
	// Name is the display name of the tenant.
	Name string `gorm:"size:200;not null"`
	// Domain is the unique domain of the tenant.
	Domain string `gorm:"unique;size:255;not null"`
	// Plan is the subscription plan name.
	Plan string `gorm:"size:50"`
	// Status is the lifecycle status (e.g., "active", "suspended").
	Status string `gorm:"size:20;not null;default:'active'"`
	// Features is the list of enabled features and permission overrides.
	Features datatypes.JSONSlice[string]
	// CreatedAt is the timestamp when the tenant was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the tenant was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Tenant model.
func (Tenant) TableName() string {
	return "tenants"
}
