// Package auditlog persists and queries permission decision entries.
package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/models"
)

const (
	// DefaultLimit is the page size used when Filter.Limit is zero.
	DefaultLimit = 50
	// MaxLimit caps Filter.Limit.
	MaxLimit = 500
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Filter selects audit log entries. Zero values match everything.
type Filter struct {
	TenantID string
	UserID   string
	Allowed  *bool
	Limit    int
	Offset   int
}

// Append stores a single entry.
func Append(db *gorm.DB, entry audit.Entry) error {
	if db == nil {
		return ErrDBNil
	}

	row := models.AuditLog{
		UserID:      entry.UserID,
		TenantID:    entry.TenantID,
		WorkspaceID: entry.WorkspaceID,
		Action:      entry.Action,
		Resource:    entry.Resource,
		Permission:  entry.Permission,
		Allowed:     entry.Allowed,
		Reason:      entry.Reason,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		CreatedAt:   entry.CreatedAt,
	}

	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}

		row.Metadata = datatypes.JSON(raw)
	}

	return db.Create(&row).Error
}

// List returns the entries matching f, newest first, and the total number of matches.
func List(db *gorm.DB, f Filter) ([]models.AuditLog, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.Model(&models.AuditLog{})
	if f.TenantID != "" {
		query = query.Where("tenant_id = ?", f.TenantID)
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Allowed != nil {
		query = query.Where("allowed = ?", *f.Allowed)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var rows []models.AuditLog
	err := query.Order("created_at DESC").Order("id").Limit(limit).Offset(max(f.Offset, 0)).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ToEntry converts a stored row back to an audit entry.
func ToEntry(row models.AuditLog) audit.Entry {
	entry := audit.Entry{
		UserID:      row.UserID,
		TenantID:    row.TenantID,
		WorkspaceID: row.WorkspaceID,
		Action:      row.Action,
		Resource:    row.Resource,
		Permission:  row.Permission,
		Allowed:     row.Allowed,
		Reason:      row.Reason,
		IPAddress:   row.IPAddress,
		UserAgent:   row.UserAgent,
		CreatedAt:   row.CreatedAt,
	}

	if len(row.Metadata) > 0 {
		_ = json.Unmarshal(row.Metadata, &entry.Metadata)
	}

	return entry
}

// Store adapts the audit log queries to audit.Store.
type Store struct {
	db *gorm.DB
}

// NewStore creates an audit log store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AppendAuditEntry implements audit.Store.
func (s *Store) AppendAuditEntry(ctx context.Context, entry audit.Entry) error {
	if s.db == nil {
		return ErrDBNil
	}

	return Append(s.db.WithContext(ctx), entry)
}

// List returns the entries matching f as audit entries, newest first, and the total number of matches.
func (s *Store) List(ctx context.Context, f Filter) ([]audit.Entry, int64, error) {
	if s.db == nil {
		return nil, 0, ErrDBNil
	}

	rows, total, err := List(s.db.WithContext(ctx), f)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]audit.Entry, len(rows))
	for i, row := range rows {
		entries[i] = ToEntry(row)
	}

	return entries, total, nil
}
