package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotPending(t *testing.T) {
	snapshot := PendingSnapshot()

	assert.Equal(t, CheckPending, snapshot.Check("/dashboard/blog", "GET"))
	assert.False(t, snapshot.Allows("/dashboard/blog", "GET"))
	assert.False(t, snapshot.ElementVisible("blog", "read"))
}

func TestSnapshotCheck(t *testing.T) {
	snapshot := NewSnapshot([]Grant{
		{URLAccess: strPtr(`{"read":"/api/blog,/api/menu/items","update":"/api/blog/:id"}`)},
	})

	tests := []struct {
		name   string
		route  string
		method string
		want   CheckState
	}{
		{"dashboard route maps to api", "/dashboard/blog", "GET", CheckAllowed},
		{"prefix anchoring accepts subroute", "/dashboard/blog/drafts", "GET", CheckAllowed},
		{"api route checked as-is", "/api/menu/items", "GET", CheckAllowed},
		{"put treated as update here", "/dashboard/blog/abc", "PUT", CheckAllowed},
		{"no grant for action", "/dashboard/blog", "POST", CheckDenied},
		{"no grant for route", "/dashboard/users", "GET", CheckDenied},
		{"unknown verb", "/dashboard/blog", "TRACE", CheckDenied},
		// "/dashboard" alone is not rewritten, so it never matches /api grants.
		{"bare dashboard passes through", "/dashboard", "GET", CheckDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snapshot.Check(tt.route, tt.method))
		})
	}
}

func TestMapFrontendRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/dashboard/blog", "/api/blog"},
		{"/dashboard/blog/new", "/api/blog/new"},
		{"/dashboard", "/dashboard"},
		{"/api/settings", "/api/settings"},
		{"/", "/"},
		{"/dashboard/", "/dashboard/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapFrontendRoute(tt.route), "route %s", tt.route)
	}
}

func TestElementVisible(t *testing.T) {
	snapshot := NewSnapshot([]Grant{
		{URLAccess: strPtr(`{"create":"post:/api/blog/createblog","read":"/api/media"}`)},
	})

	assert.True(t, snapshot.ElementVisible("blog", "create"))
	assert.True(t, snapshot.ElementVisible("BLOG", "CREATE"))
	assert.True(t, snapshot.ElementVisible("media", "read"))
	assert.False(t, snapshot.ElementVisible("media", "create"))
	assert.False(t, snapshot.ElementVisible("users", "read"))
}

func TestElementVisibleSkipsBadAccess(t *testing.T) {
	snapshot := NewSnapshot([]Grant{
		{URLAccess: strPtr(`{broken`)},
		{URLAccess: strPtr(`{"read":"/api/settings"}`)},
	})

	assert.True(t, snapshot.ElementVisible("settings", "read"))
}
