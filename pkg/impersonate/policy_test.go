package impersonate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-admin/pkg/directory"
)

// mockDirectory serves canned users and errors for policy tests
type mockDirectory struct {
	users map[uuid.UUID]directory.User
	err   error
}

func (m *mockDirectory) GetUser(ctx context.Context, userID uuid.UUID) (directory.User, error) {
	if m.err != nil {
		return directory.User{}, m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return directory.User{}, directory.ErrUserNotFound
	}
	return user, nil
}

func newMockDirectory(users ...directory.User) *mockDirectory {
	m := &mockDirectory{users: make(map[uuid.UUID]directory.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func adminUser() directory.User {
	return directory.User{ID: uuid.New(), Email: "admin@example.com", Name: "Admin", Role: directory.RoleAdmin}
}

func regularUser() directory.User {
	return directory.User{ID: uuid.New(), Email: "user@example.com", Name: "User", Role: directory.RoleUser}
}

func assertForbidden(t *testing.T, err error, message string) {
	t.Helper()
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindForbidden, svcErr.Kind)
	assert.Equal(t, message, svcErr.Message)
}

func TestPolicy_SelfImpersonation(t *testing.T) {
	admin := adminUser()
	policy := NewPolicy(newMockDirectory(admin))

	_, _, err := policy.Check(context.Background(), admin.ID, admin.ID)
	assertForbidden(t, err, "cannot impersonate yourself")
}

func TestPolicy_SelfImpersonationSkipsLookup(t *testing.T) {
	// The self check must run before any directory lookup, so even a
	// broken directory cannot change the answer.
	policy := NewPolicy(&mockDirectory{err: errors.New("directory down")})
	id := uuid.New()

	_, _, err := policy.Check(context.Background(), id, id)
	assertForbidden(t, err, "cannot impersonate yourself")
}

func TestPolicy_AdminNotFound(t *testing.T) {
	target := regularUser()
	policy := NewPolicy(newMockDirectory(target))

	_, _, err := policy.Check(context.Background(), uuid.New(), target.ID)
	assertForbidden(t, err, "admin user not found")
}

func TestPolicy_NonAdminActor(t *testing.T) {
	actor := regularUser()
	target := regularUser()
	policy := NewPolicy(newMockDirectory(actor, target))

	_, _, err := policy.Check(context.Background(), actor.ID, target.ID)
	assertForbidden(t, err, "only admins can impersonate")
}

func TestPolicy_ModeratorCannotImpersonate(t *testing.T) {
	actor := directory.User{ID: uuid.New(), Email: "mod@example.com", Role: directory.RoleModerator}
	target := regularUser()
	policy := NewPolicy(newMockDirectory(actor, target))

	_, _, err := policy.Check(context.Background(), actor.ID, target.ID)
	assertForbidden(t, err, "only admins can impersonate")
}

func TestPolicy_TargetNotFound(t *testing.T) {
	admin := adminUser()
	policy := NewPolicy(newMockDirectory(admin))

	_, _, err := policy.Check(context.Background(), admin.ID, uuid.New())
	assertForbidden(t, err, "target user not found")
}

func TestPolicy_AdminOnAdmin(t *testing.T) {
	adminA := adminUser()
	adminB := adminUser()
	policy := NewPolicy(newMockDirectory(adminA, adminB))

	_, _, err := policy.Check(context.Background(), adminA.ID, adminB.ID)
	assertForbidden(t, err, "cannot impersonate admin users")
}

func TestPolicy_DirectoryFailureIsInternal(t *testing.T) {
	policy := NewPolicy(&mockDirectory{err: errors.New("connection refused")})

	_, _, err := policy.Check(context.Background(), uuid.New(), uuid.New())
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindInternal, svcErr.Kind)
	// The transport failure is never surfaced in the message
	assert.Equal(t, "internal error", svcErr.Message)
}

func TestPolicy_Allowed(t *testing.T) {
	admin := adminUser()
	target := regularUser()
	policy := NewPolicy(newMockDirectory(admin, target))

	gotAdmin, gotTarget, err := policy.Check(context.Background(), admin.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, admin, gotAdmin)
	assert.Equal(t, target, gotTarget)
}
