package models

import "time"

// Role is a named set of permissions assigned to users.
// Examples include "Platform Admin", "Organization Admin" and "Viewer".
type Role struct {
	// ID is the UUID of the role.
	ID string `gorm:"primaryKey;size:36"`
	// Name is the unique display name of the role.
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem marks roles created by the seed that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
