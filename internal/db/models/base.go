// Package models contains database model definitions.
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID fills an empty string primary key with a random UUID.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate assigns the role id.
func (r *Role) BeforeCreate(*gorm.DB) error {
	newID(&r.ID)
	return nil
}

// BeforeCreate assigns the permission id.
func (p *Permission) BeforeCreate(*gorm.DB) error {
	newID(&p.ID)
	return nil
}

// BeforeCreate assigns the user id.
func (u *User) BeforeCreate(*gorm.DB) error {
	newID(&u.ID)
	return nil
}

// BeforeCreate assigns the tenant id.
func (t *Tenant) BeforeCreate(*gorm.DB) error {
	newID(&t.ID)
	return nil
}

// BeforeCreate assigns the workspace id.
func (w *Workspace) BeforeCreate(*gorm.DB) error {
	newID(&w.ID)
	return nil
}

// BeforeCreate assigns the audit log id.
func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	newID(&a.ID)
	return nil
}
