package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is a persisted permission decision. Rows are append-only.
type AuditLog struct {
	// ID is the UUID of the entry.
	ID string `gorm:"primaryKey;size:36"`
	// UserID is the user the decision was made for.
	UserID string `gorm:"size:36;not null;index"`
	// TenantID is the tenant the request operated in, empty outside a tenant.
	TenantID string `gorm:"size:36;index"`
	// WorkspaceID is the workspace the request operated in, if any.
	WorkspaceID string `gorm:"size:36"`
	// Action is the audited action (e.g., "permission_check").
	Action string `gorm:"size:50;not null"`
	// Resource is the resource part of the checked permission.
	Resource string `gorm:"size:100;not null"`
	// Permission is the checked permission token.
	Permission string `gorm:"size:100"`
	// Allowed is the decision.
	Allowed bool `gorm:"not null;index"`
	// Reason explains a denial.
	Reason string `gorm:"size:500"`
	// Metadata holds additional decision details as a JSON object.
	Metadata datatypes.JSON
	// IPAddress is the client address of the request, if known.
	IPAddress string `gorm:"size:45"`
	// UserAgent is the client user agent of the request, if known.
	UserAgent string `gorm:"size:500"`
	// CreatedAt is the decision time.
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for the AuditLog model.
func (AuditLog) TableName() string {
	return "audit_logs"
}
