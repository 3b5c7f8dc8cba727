package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/authz"
)

// Administrator is granted every permission's full restrict set, so each
// guarded route must be reachable through at least one seeded pattern. A
// route listed here that no restrict entry covers would lock even the
// Administrator out.
func TestSeededRestrictsCoverGuardedRoutes(t *testing.T) {
	adminGrants := make([]authz.Grant, 0, len(defaultPermissions))
	for i := range defaultPermissions {
		access := mustAccess(defaultPermissions[i].Restrict)
		adminGrants = append(adminGrants, authz.Grant{URLAccess: &access})
	}

	// Registered routes that sit behind the authorization gate, with path
	// parameters replaced by concrete segments.
	guarded := []struct {
		method string
		path   string
	}{
		{"POST", "/api/rolepermission"},
		{"GET", "/api/rolepermission"},
		{"PUT", "/api/rolepermission/42"},
		{"PATCH", "/api/rolepermission/42"},

		{"POST", "/api/media/upload"},
		{"GET", "/api/media"},
		{"PATCH", "/api/media/42"},
		{"DELETE", "/api/media/42"},

		{"GET", "/api/blog"},
		{"GET", "/api/blog/categoryblog"},
		{"GET", "/api/blog/userblog"},
		{"GET", "/api/blog/imageblog"},
		{"POST", "/api/blog/createblog"},
		{"PATCH", "/api/blog/42"},
		{"PUT", "/api/blog/42"},
		{"DELETE", "/api/blog/deleteMultiple"},
		{"GET", "/api/blog/42"},

		{"POST", "/api/permissions"},
		{"GET", "/api/permissions"},
		{"GET", "/api/permissions/42"},
		{"PATCH", "/api/permissions/42"},
		{"DELETE", "/api/permissions/42"},

		{"GET", "/api/menu"},
		{"GET", "/api/menu/42"},
		{"POST", "/api/menu"},
		{"PATCH", "/api/menu/42"},
		{"DELETE", "/api/menu/42"},

		{"GET", "/api/settings"},
		{"PATCH", "/api/settings"},

		{"GET", "/api/pages"},
		{"GET", "/api/pages/author"},
		{"POST", "/api/pages"},
		{"DELETE", "/api/pages/deleteMultiple"},
		{"GET", "/api/pages/42"},
		{"PATCH", "/api/pages/42"},
		{"DELETE", "/api/pages/42"},

		{"POST", "/api/users"},
		{"GET", "/api/users"},

		{"GET", "/api/dashboard"},
	}

	for _, route := range guarded {
		action, ok := authz.ServerActions.ActionFor(route.method)
		require.True(t, ok, "%s has no action mapping", route.method)

		assert.True(t, authz.Allowed(adminGrants, action, route.path, authz.AnchorExact),
			"%s %s is not covered by any seeded restrict", route.method, route.path)
	}
}

// Role grants are carved out of the restrict sets, so every granted pattern
// must appear in the matching restrict entry.
func TestSeededRoleGrantsStayWithinRestricts(t *testing.T) {
	restricts := map[string]seedAccess{}
	for _, sp := range defaultPermissions {
		restricts[sp.Name] = sp.Restrict
	}

	for roleName, grants := range roleGrants {
		for permName, granted := range grants {
			restrict, ok := restricts[permName]
			require.True(t, ok, "%s grants unknown permission %q", roleName, permName)

			checkSubset(t, roleName, permName, "create", granted.Create, restrict.Create)
			checkSubset(t, roleName, permName, "read", granted.Read, restrict.Read)
			checkSubset(t, roleName, permName, "update", granted.Update, restrict.Update)
			checkSubset(t, roleName, permName, "delete", granted.Delete, restrict.Delete)
		}
	}
}

func checkSubset(t *testing.T, role, perm, action string, granted, restrict *string) {
	t.Helper()

	if granted == nil {
		return
	}
	require.NotNil(t, restrict, "%s/%s grants %s but the restrict has no %s key", role, perm, action, action)

	allowed := map[string]bool{}
	for _, p := range strings.Split(*restrict, ",") {
		allowed[strings.TrimSpace(p)] = true
	}
	for _, p := range strings.Split(*granted, ",") {
		assert.True(t, allowed[strings.TrimSpace(p)],
			"%s/%s %s pattern %q is outside the restrict set", role, perm, action, p)
	}
}

func TestSeedAccessMarshalsWithAllKeys(t *testing.T) {
	raw := mustAccess(seedAccess{Read: str("/api/settings")})

	var decoded map[string]*string
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	assert.Len(t, decoded, 4)
	require.NotNil(t, decoded["read"])
	assert.Equal(t, "/api/settings", *decoded["read"])
	assert.Nil(t, decoded["update"])
}
