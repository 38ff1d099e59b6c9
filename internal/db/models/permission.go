package models

import "time"

// Permission is a catalogued permission token in resource.action form.
type Permission struct {
	// ID is the UUID of the permission.
	ID string `gorm:"primaryKey;size:36"`
	// Name is the unique permission token (e.g., "users.write").
	Name string `gorm:"unique;size:100;not null"`
	// Resource is the part of the token before the last dot (e.g., "users").
	Resource string `gorm:"size:100;not null;index"`
	// Action is the part of the token after the last dot (e.g., "write").
	Action string `gorm:"size:50;not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
