package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tindevelopers/tinadmin-saas-base/internal/audit"
	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

var (
	errStoreDown  = errors.New("store down")
	errNoSuchUser = errors.New("user not found")
)

type fakeRoleStore struct {
	mu     sync.Mutex
	grants map[string]RoleGrant
	err    error
	calls  int
}

func (f *fakeRoleStore) GetUserRoleAndPermissions(_ context.Context, userID string) (RoleGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	if f.err != nil {
		return RoleGrant{}, f.err
	}

	grant, ok := f.grants[userID]
	if !ok {
		return RoleGrant{}, errNoSuchUser
	}

	return grant, nil
}

type fakeTenantStore struct {
	features map[string][]string
	err      error
}

func (f *fakeTenantStore) GetTenantFeatures(_ context.Context, tenantID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.features[tenantID], nil
}

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
	ctxErrs []error
	err     error
}

func (s *recordingSink) Record(ctx context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())

	return s.err
}

func (s *recordingSink) snapshot() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]audit.Entry(nil), s.entries...)
}

type fixture struct {
	roles   *fakeRoleStore
	tenants *fakeTenantStore
	sink    *recordingSink

	roleResolver   *RoleResolver
	tenantResolver *TenantResolver
	tracer         *Tracer
	gate           *Gate
}

// newFixture builds the two-user world used throughout the package tests:
// u1 is an Editor with posts.write, t1 enables posts.publish and a UI flag,
// u2 has no role and t2 has no features.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalogue, err := permission.NewCatalogue("posts.read", "posts.write", "posts.publish", "posts.delete")
	require.NoError(t, err)

	f := &fixture{
		roles: &fakeRoleStore{grants: map[string]RoleGrant{
			"u1": {RoleName: "Editor", Permissions: []string{"posts.write"}},
			"u2": {},
			"u3": {RoleName: "Reader", Permissions: []string{"posts.read"}},
		}},
		tenants: &fakeTenantStore{features: map[string][]string{
			"t1": {"posts.publish", "ui.darkmode"},
			"t2": {},
			"t3": {"posts.write", "analytics"},
		}},
		sink: &recordingSink{},
	}

	f.roleResolver = NewRoleResolver(f.roles)
	f.tenantResolver = NewTenantResolver(f.roleResolver, f.tenants, catalogue)
	f.tracer = NewTracer(f.roleResolver, f.tenantResolver)
	f.gate = NewGate(f.roleResolver, NewWorkspaceResolver(f.tenantResolver), f.sink)

	return f
}

func perms(tokens ...string) []permission.Permission {
	out := make([]permission.Permission, len(tokens))
	for i, s := range tokens {
		out[i] = permission.Permission(s)
	}

	return out
}
