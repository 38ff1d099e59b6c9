package models

import "time"

// User is an account whose permissions are resolved. Authentication is handled
// upstream, so only the role assignment matters here.
type User struct {
	// ID is the UUID of the user, as presented by the upstream identity provider.
	ID string `gorm:"primaryKey;size:36"`
	// Active indicates whether the user account is active.
	Active bool `gorm:"default:true"`
	// Email is the unique email address of the user.
	Email string `gorm:"unique;size:255;not null"`
	// FullName is the user's display name.
	FullName string `gorm:"size:200"`
	// RoleID is the role assigned to this user; nil means no role.
	RoleID *string `gorm:"size:36;column:role_id;index"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	// TenantID is the user's home tenant, if any.
	TenantID *string `gorm:"size:36;column:tenant_id;index"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}
