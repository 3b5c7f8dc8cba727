package authz

import "strings"

// CheckState is the tri-state result of a UI-side check. Pending is distinct
// from Denied: while the grant list is still being fetched the UI shows a
// loading placeholder, not a refusal.
type CheckState int

const (
	CheckPending CheckState = iota
	CheckAllowed
	CheckDenied
)

// Snapshot is the UI-side enforcement point: a grant list fetched once per
// page load (the /api/permissions/userpermission payload) checked locally
// without re-validating the session. It exists for in-process consumers such
// as the menu-items handler; the browser client mirrors the same rules. The
// server gate stays authoritative, so checks here use the softer prefix
// anchoring and the client action map.
type Snapshot struct {
	loaded bool
	grants []Grant
}

// NewSnapshot wraps an already-fetched grant list.
func NewSnapshot(grants []Grant) *Snapshot {
	return &Snapshot{loaded: true, grants: grants}
}

// PendingSnapshot represents a fetch still in flight.
func PendingSnapshot() *Snapshot {
	return &Snapshot{}
}

// Check decides whether the snapshot's owner may invoke method on route.
// Dashboard routes are mapped onto their backing API routes first, so a check
// against "/dashboard/blog" consults the grants for "/api/blog".
func (s *Snapshot) Check(route, method string) CheckState {
	if !s.loaded {
		return CheckPending
	}

	action, ok := ClientActions.ActionFor(method)
	if !ok {
		return CheckDenied
	}

	if Allowed(s.grants, action, mapFrontendRoute(route), AnchorPrefix) {
		return CheckAllowed
	}
	return CheckDenied
}

// Allows is Check collapsed to a boolean; a pending snapshot allows nothing.
func (s *Snapshot) Allows(route, method string) bool {
	return s.Check(route, method) == CheckAllowed
}

// ElementVisible gates individual UI elements (buttons, tabs) rather than
// routes: the element is visible if any grant's patterns for the action
// mention the element type anywhere in their path.
func (s *Snapshot) ElementVisible(elementType, action string) bool {
	if !s.loaded {
		return false
	}

	needle := strings.ToLower(elementType)
	for _, grant := range s.grants {
		if grant.URLAccess == nil {
			continue
		}

		access, err := ParseAccess(*grant.URLAccess)
		if err != nil {
			continue
		}
		patterns, ok := access.Patterns(Action(strings.ToLower(action)))
		if !ok {
			continue
		}

		for _, pattern := range strings.Split(patterns, ",") {
			clean := verbPrefix.ReplaceAllString(strings.TrimSpace(pattern), "")
			if strings.Contains(clean, needle) {
				return true
			}
		}
	}
	return false
}

// mapFrontendRoute rewrites a dashboard route to the API route it is backed
// by: "/dashboard/blog/new" becomes "/api/blog/new". Routes outside the
// dashboard tree pass through unchanged.
func mapFrontendRoute(route string) string {
	parts := make([]string, 0, 4)
	for _, part := range strings.Split(route, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) > 1 && parts[0] == "dashboard" {
		return "/api/" + strings.Join(parts[1:], "/")
	}
	return route
}
