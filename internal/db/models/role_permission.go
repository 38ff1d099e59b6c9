package models

// RolePermission is the join table between roles and permissions.
// Deleting either side removes the assignment.
type RolePermission struct {
	// RoleID is the ID of the role in this mapping.
	RoleID string `gorm:"primaryKey;size:36;column:role_id"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID string `gorm:"primaryKey;size:36;column:permission_id"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
