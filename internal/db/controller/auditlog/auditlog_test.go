package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.AuditLog{}), "failed to migrate test database")

	return db
}

func seed(t *testing.T, store *Store) {
	t.Helper()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	entries := []audit.Entry{
		{UserID: "u1", TenantID: "t1", Permission: "posts.write", Allowed: true},
		{UserID: "u1", TenantID: "t1", Permission: "posts.delete", Allowed: false, Reason: "Insufficient permissions"},
		{UserID: "u2", TenantID: "t2", Permission: "posts.write", Allowed: false, Reason: "Insufficient permissions"},
		{UserID: "u2", Permission: "users.read", Allowed: true},
	}

	for i, e := range entries {
		e.Action = audit.ActionPermissionCheck
		e.Resource = "posts"
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.AppendAuditEntry(context.Background(), e))
	}
}

func TestAppendAndList(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	err := store.AppendAuditEntry(ctx, audit.Entry{
		UserID:     "u1",
		TenantID:   "t1",
		Action:     audit.ActionPermissionCheck,
		Resource:   "billing",
		Permission: "billing.manage",
		Allowed:    false,
		Reason:     "permission lookup failed",
		Metadata:   map[string]any{"tenantScoped": true, "error": "store down"},
		IPAddress:  "10.0.0.1",
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	entries, total, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, "billing.manage", got.Permission)
	assert.False(t, got.Allowed)
	assert.Equal(t, "10.0.0.1", got.IPAddress)
	assert.Equal(t, true, got.Metadata["tenantScoped"])
	assert.Equal(t, "store down", got.Metadata["error"])
}

func TestList_Filter(t *testing.T) {
	store := NewStore(setupTestDB(t))
	seed(t, store)

	denied := false

	testCases := []struct {
		name          string
		filter        Filter
		expectedTotal int64
		expectedPerms []string
	}{
		{name: "all newest first", filter: Filter{}, expectedTotal: 4,
			expectedPerms: []string{"users.read", "posts.write", "posts.delete", "posts.write"}},
		{name: "by tenant", filter: Filter{TenantID: "t1"}, expectedTotal: 2,
			expectedPerms: []string{"posts.delete", "posts.write"}},
		{name: "by user", filter: Filter{UserID: "u2"}, expectedTotal: 2,
			expectedPerms: []string{"users.read", "posts.write"}},
		{name: "denied only", filter: Filter{Allowed: &denied}, expectedTotal: 2,
			expectedPerms: []string{"posts.write", "posts.delete"}},
		{name: "paged", filter: Filter{Limit: 1, Offset: 1}, expectedTotal: 4,
			expectedPerms: []string{"posts.write"}},
		{name: "past the end", filter: Filter{Offset: 10}, expectedTotal: 4, expectedPerms: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries, total, err := store.List(context.Background(), tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTotal, total)

			perms := make([]string, len(entries))
			for i, e := range entries {
				perms[i] = e.Permission
			}
			assert.Equal(t, tc.expectedPerms, perms)
		})
	}
}

func TestNilDB(t *testing.T) {
	require.ErrorIs(t, Append(nil, audit.Entry{}), ErrDBNil)

	_, _, err := List(nil, Filter{})
	require.ErrorIs(t, err, ErrDBNil)

	require.ErrorIs(t, NewStore(nil).AppendAuditEntry(context.Background(), audit.Entry{}), ErrDBNil)
}

func TestStore_DatabaseUnavailable(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Discard, SkipDefaultTransaction: true})
	require.NoError(t, err)

	errDown := errors.New("connection refused")
	mock.ExpectExec("INSERT INTO `audit_logs`").WillReturnError(errDown)

	err = NewStore(db).AppendAuditEntry(context.Background(), audit.Entry{UserID: "u1", Action: "permission_check"})
	require.ErrorIs(t, err, errDown)
	require.NoError(t, mock.ExpectationsWereMet())
}
