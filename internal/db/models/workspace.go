package models

import "time"

// Workspace is a subdivision of a tenant.
type Workspace struct {
	ID       string `gorm:"primaryKey;size:36"`
	TenantID string `gorm:"size:36;not null;uniqueIndex:idx_workspace_tenant_slug"`
	Tenant   Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
	Name     string `gorm:"size:200;not null"`
	// Slug is unique within the tenant.
	Slug      string `gorm:"size:100;not null;uniqueIndex:idx_workspace_tenant_slug"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Workspace model.
func (Workspace) TableName() string {
	return "workspaces"
}
