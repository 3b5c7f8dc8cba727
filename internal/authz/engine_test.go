package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions struct {
	userID string
	err    error
}

func (s *stubSessions) Resolve(ctx context.Context, token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.userID, nil
}

type stubGrants struct {
	grants []Grant
	err    error
}

func (s *stubGrants) GrantsForUser(ctx context.Context, userID string) ([]Grant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.grants, nil
}

func editorGrants() []Grant {
	role := "role-editor"
	perm := "perm-blog"
	return []Grant{
		{
			RoleID:       &role,
			PermissionID: &perm,
			URLAccess:    strPtr(`{"create":"/api/blog/createblog","read":"/api/blog,/api/blog/:id","update":"/api/blog/:id","delete":"/api/blog/:id"}`),
		},
	}
}

func newTestEngine(sessions SessionResolver, grants GrantSource) *Engine {
	return NewEngine(sessions, grants)
}

func TestAuthorizeTaxonomy(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		engine := newTestEngine(&stubSessions{}, &stubGrants{})
		err := engine.Authorize(ctx, "", "GET", "/api/blog")
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("invalid session", func(t *testing.T) {
		engine := newTestEngine(&stubSessions{err: ErrSessionInvalid}, &stubGrants{})
		err := engine.Authorize(ctx, "tok", "GET", "/api/blog")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("expired session", func(t *testing.T) {
		engine := newTestEngine(&stubSessions{err: ErrSessionExpired}, &stubGrants{})
		err := engine.Authorize(ctx, "tok", "GET", "/api/blog")
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("no grants", func(t *testing.T) {
		engine := newTestEngine(&stubSessions{userID: "u1"}, &stubGrants{})
		err := engine.Authorize(ctx, "tok", "GET", "/api/blog")
		assert.ErrorIs(t, err, ErrNoGrants)
	})

	t.Run("store fault surfaces verbatim", func(t *testing.T) {
		boom := errors.New("connection refused")
		engine := newTestEngine(&stubSessions{userID: "u1"}, &stubGrants{err: boom})
		err := engine.Authorize(ctx, "tok", "GET", "/api/blog")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrForbidden)
	})
}

func TestAuthorizeDecisions(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(&stubSessions{userID: "u1"}, &stubGrants{grants: editorGrants()})

	tests := []struct {
		name    string
		method  string
		path    string
		allowed bool
	}{
		{"read collection", "GET", "/api/blog", true},
		{"read detail via param", "GET", "/api/blog/abc-123", true},
		{"create", "POST", "/api/blog/createblog", true},
		{"update", "PATCH", "/api/blog/abc-123", true},
		{"put maps to delete, which is granted", "PUT", "/api/blog/abc-123", true},
		{"delete", "DELETE", "/api/blog/abc-123", true},
		{"create on ungranted path", "POST", "/api/blog", false},
		{"different resource", "GET", "/api/users", false},
		{"exact anchoring rejects subpath", "GET", "/api/blog/abc/extra", false},
		{"unknown verb", "TRACE", "/api/blog", false},
		{"query string ignored", "GET", "/api/blog?page=2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.Authorize(ctx, "tok", tt.method, tt.path)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestAuthorizePutDeleteDivergence(t *testing.T) {
	ctx := context.Background()

	// Update granted but delete not: PUT must be refused at the gate even
	// though the client map would have treated it as an update.
	grants := []Grant{{URLAccess: strPtr(`{"update":"/api/blog/:id"}`)}}
	engine := newTestEngine(&stubSessions{userID: "u1"}, &stubGrants{grants: grants})

	assert.NoError(t, engine.Authorize(ctx, "tok", "PATCH", "/api/blog/x"))
	assert.ErrorIs(t, engine.Authorize(ctx, "tok", "PUT", "/api/blog/x"), ErrForbidden)
}

func TestAllowedFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		grants []Grant
	}{
		{"nil access", []Grant{{URLAccess: nil}}},
		{"malformed access", []Grant{{URLAccess: strPtr(`{broken`)}}},
		{"null action", []Grant{{URLAccess: strPtr(`{"read":null}`)}}},
		{"empty action", []Grant{{URLAccess: strPtr(`{"read":""}`)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Allowed(tt.grants, ActionRead, "/api/blog", AnchorExact))
		})
	}
}

func TestAllowedAnyGrantSuffices(t *testing.T) {
	grants := []Grant{
		{URLAccess: strPtr(`{broken`)},
		{URLAccess: nil},
		{URLAccess: strPtr(`{"read":"/api/settings"}`)},
	}
	assert.True(t, Allowed(grants, ActionRead, "/api/settings", AnchorExact))
}
