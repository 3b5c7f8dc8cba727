package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseAccess(t *testing.T) {
	t.Run("full object", func(t *testing.T) {
		access, err := ParseAccess(`{"create":"/api/blog","read":"/api/blog,/api/media","update":null,"delete":null}`)
		require.NoError(t, err)

		patterns, ok := access.Patterns(ActionCreate)
		assert.True(t, ok)
		assert.Equal(t, "/api/blog", patterns)

		patterns, ok = access.Patterns(ActionRead)
		assert.True(t, ok)
		assert.Equal(t, "/api/blog,/api/media", patterns)

		_, ok = access.Patterns(ActionUpdate)
		assert.False(t, ok)
		_, ok = access.Patterns(ActionDelete)
		assert.False(t, ok)
	})

	t.Run("trailing comma is stripped", func(t *testing.T) {
		access, err := ParseAccess(`{"read":"/api/settings"},`)
		require.NoError(t, err)

		patterns, ok := access.Patterns(ActionRead)
		assert.True(t, ok)
		assert.Equal(t, "/api/settings", patterns)
	})

	t.Run("comma before closing brace is stripped", func(t *testing.T) {
		access, err := ParseAccess(`{"read":"/x",}`)
		require.NoError(t, err)

		patterns, ok := access.Patterns(ActionRead)
		assert.True(t, ok)
		assert.Equal(t, "/x", patterns)
	})

	t.Run("absent keys grant nothing", func(t *testing.T) {
		access, err := ParseAccess(`{}`)
		require.NoError(t, err)

		for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
			_, ok := access.Patterns(action)
			assert.False(t, ok, "action %s", action)
		}
	})

	t.Run("empty string grants nothing", func(t *testing.T) {
		access, err := ParseAccess(`{"read":""}`)
		require.NoError(t, err)

		_, ok := access.Patterns(ActionRead)
		assert.False(t, ok)
	})

	t.Run("malformed value", func(t *testing.T) {
		_, err := ParseAccess(`{not json`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedAccess)
	})
}

func TestActionMaps(t *testing.T) {
	tests := []struct {
		method string
		server Action
		client Action
	}{
		{"GET", ActionRead, ActionRead},
		{"POST", ActionCreate, ActionCreate},
		{"PATCH", ActionUpdate, ActionUpdate},
		{"DELETE", ActionDelete, ActionDelete},
		// PUT is the one verb the two maps disagree on.
		{"PUT", ActionDelete, ActionUpdate},
	}

	for _, tt := range tests {
		action, ok := ServerActions.ActionFor(tt.method)
		require.True(t, ok, "server map should know %s", tt.method)
		assert.Equal(t, tt.server, action)

		action, ok = ClientActions.ActionFor(tt.method)
		require.True(t, ok, "client map should know %s", tt.method)
		assert.Equal(t, tt.client, action)
	}

	_, ok := ServerActions.ActionFor("TRACE")
	assert.False(t, ok)
	_, ok = ClientActions.ActionFor("OPTIONS")
	assert.False(t, ok)
}
