package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidation(t *testing.T) {
	v := NewValidator()
	require.NotNil(t, v)

	valid := RegisterRequest{
		Username: "editor",
		Email:    "editor@example.com",
		Name:     "Editor",
		Password: "longenough",
	}
	assert.NoError(t, v.Validate(&valid))

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"short username", RegisterRequest{Username: "ab", Email: "a@b.co", Name: "x", Password: "longenough"}},
		{"bad email", RegisterRequest{Username: "editor", Email: "not-an-email", Name: "x", Password: "longenough"}},
		{"short password", RegisterRequest{Username: "editor", Email: "a@b.co", Name: "x", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Validate(&tt.req))
		})
	}
}

func TestPermissionRequestValidation(t *testing.T) {
	v := NewValidator()

	read := "/api/blog"
	valid := PermissionRequest{
		Name:        "Blog",
		Description: "Blog management",
		MenuID:      "menu-1",
		URLAccess:   &URLAccessRequest{Read: &read},
	}
	assert.NoError(t, v.Validate(&valid))

	missing := PermissionRequest{Name: "Blog", Description: "d", MenuID: "menu-1"}
	assert.Error(t, v.Validate(&missing), "urlAccess is required")
}

func TestURLAccessPatternValidation(t *testing.T) {
	v := NewValidator()

	str := func(s string) *string { return &s }
	grant := func(access *URLAccessRequest) *GrantUpdateRequest {
		return &GrantUpdateRequest{RoleID: "role-1", URLAccess: access}
	}

	tests := []struct {
		name   string
		access *URLAccessRequest
		valid  bool
	}{
		{"rooted patterns", &URLAccessRequest{Read: str("/api/blog,/api/media")}, true},
		{"verb prefix", &URLAccessRequest{Update: str("patch:/api/blog/:id")}, true},
		{"null values", &URLAccessRequest{}, true},
		{"trailing comma entry", &URLAccessRequest{Read: str("/api/blog,")}, true},
		{"unrooted pattern", &URLAccessRequest{Read: str("api/blog")}, false},
		{"unrooted after prefix", &URLAccessRequest{Delete: str("put:api/blog")}, false},
		{"unrooted in list", &URLAccessRequest{Read: str("/api/blog,blog")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(grant(tt.access))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&RoleRequest{RoleName: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roleName")
}
