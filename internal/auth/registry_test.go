package auth

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/authz"
)

func TestGrantsForUser(t *testing.T) {
	columns := []string{"role_id", "permission_id", "url_access"}

	t.Run("user with grants", func(t *testing.T) {
		db, mock := newMockDB(t)
		registry := NewRegistry(db)

		mock.ExpectQuery(`SELECT auth_user\.role_id AS role_id, .+ FROM "auth_user" LEFT JOIN role_permission`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("role-1", "perm-1", `{"read":"/api/blog"}`).
				AddRow("role-1", "perm-2", `{"create":"/api/media/upload"}`))

		grants, err := registry.GrantsForUser(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, grants, 2)
		assert.Equal(t, "role-1", *grants[0].RoleID)
		assert.Equal(t, "perm-1", *grants[0].PermissionID)
		assert.Equal(t, `{"read":"/api/blog"}`, *grants[0].URLAccess)
	})

	t.Run("role without assignments yields null row", func(t *testing.T) {
		db, mock := newMockDB(t)
		registry := NewRegistry(db)

		mock.ExpectQuery(`FROM "auth_user" LEFT JOIN role_permission`).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("role-1", nil, nil))

		grants, err := registry.GrantsForUser(context.Background(), "user-2")
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Nil(t, grants[0].PermissionID)
		assert.Nil(t, grants[0].URLAccess)
	})

	t.Run("unknown user yields no rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		registry := NewRegistry(db)

		mock.ExpectQuery(`FROM "auth_user" LEFT JOIN role_permission`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(columns))

		grants, err := registry.GrantsForUser(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Empty(t, grants)
	})
}

func TestGroupedByRole(t *testing.T) {
	columns := []string{
		"role_id", "role_name", "permission_id", "permission_name",
		"permission_description", "url_restrict", "menu_id", "menu_name",
		"menu_svg", "url_access",
	}

	db, mock := newMockDB(t)
	registry := NewRegistry(db)

	mock.ExpectQuery(`FROM "Role" LEFT JOIN role_permission`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("role-1", "admin", "perm-1", "Blog", "Blog management", `{"read":"/api/blog"}`, "menu-1", "Blog", "<svg/>", `{"read":"/api/blog"}`).
			AddRow("role-1", "admin", "perm-2", "Media", "Media library", `{}`, "menu-2", "Media", "<svg/>", `{broken`).
			AddRow("role-2", "viewer", nil, nil, nil, nil, nil, nil, nil, nil))

	views, err := registry.GroupedByRole(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	admin := views[0]
	assert.Equal(t, "role-1", admin.ID)
	assert.Equal(t, "admin", admin.Name)
	require.Len(t, admin.Permissions, 2)
	assert.Equal(t, "perm-1", admin.Permissions[0].ID)
	assert.Equal(t, "menu-1", admin.Permissions[0].Menu.ID)

	// Parsed urlAccess objects come back typed; unparseable ones as null.
	access, ok := admin.Permissions[0].URLAccess.(*authz.Access)
	require.True(t, ok)
	patterns, granted := access.Patterns(authz.ActionRead)
	assert.True(t, granted)
	assert.Equal(t, "/api/blog", patterns)
	assert.Nil(t, admin.Permissions[1].URLAccess)

	viewer := views[1]
	assert.Equal(t, "viewer", viewer.Name)
	assert.Empty(t, viewer.Permissions)
}
