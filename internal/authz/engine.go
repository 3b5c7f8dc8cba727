package authz

import (
	"context"
	"errors"
	"strings"

	console "inkwell/internal/utils/logger"
)

var log = console.New("authz")

// Decision errors, ordered roughly by how far the check got. Anything not in
// this taxonomy that comes out of Authorize is an infrastructure fault from
// one of the backing stores and must surface as a 500-class error, never as a
// deny.
var (
	// ErrNoSession: no token was presented at all.
	ErrNoSession = errors.New("no session token provided")
	// ErrSessionInvalid: a token was presented but no such session exists.
	ErrSessionInvalid = errors.New("invalid session")
	// ErrSessionExpired: the session existed but its idle deadline had
	// passed; the record is deleted as a side effect of detection.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoGrants: the user resolved but carries no roles or permissions.
	ErrNoGrants = errors.New("no roles or permissions assigned")
	// ErrForbidden: grants exist but none matches method + path.
	ErrForbidden = errors.New("access denied")
)

// Grant is one row of the user's effective permission set: the role that
// carries it, the permission it grants and the urlAccess value actually
// granted for that (role, permission) pair. Fields are pointers because the
// registry query is a left join; a user whose role has no permissions yields
// one row of nulls.
type Grant struct {
	RoleID       *string `gorm:"column:role_id" json:"roleId"`
	PermissionID *string `gorm:"column:permission_id" json:"permissionId"`
	URLAccess    *string `gorm:"column:url_access" json:"urlAccess"`
}

// SessionResolver resolves a session token to a user id. Implementations
// refresh the session's idle deadline on success and report expiry with
// ErrSessionExpired after deleting the record.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// GrantSource yields the effective grants for a user. An empty slice means
// the user does not exist or has nothing assigned.
type GrantSource interface {
	GrantsForUser(ctx context.Context, userID string) ([]Grant, error)
}

// Engine answers "is (session, method, path) allowed?". It is the single
// implementation behind both enforcement points; the UI-side variant is
// Snapshot, which reuses the same matching over a prefetched grant list.
type Engine struct {
	sessions SessionResolver
	grants   GrantSource
	actions  ActionMap
	anchor   Anchor
}

// NewEngine builds the request-gate engine: server action map, exact-match
// anchoring.
func NewEngine(sessions SessionResolver, grants GrantSource) *Engine {
	return &Engine{
		sessions: sessions,
		grants:   grants,
		actions:  ServerActions,
		anchor:   AnchorExact,
	}
}

// Authorize returns nil when the session may invoke method on path, one of
// the taxonomy errors when it may not, and any other error verbatim when a
// backing store failed. Aside from the idle-deadline refresh inside Resolve,
// the decision is a pure function of stored state.
func (e *Engine) Authorize(ctx context.Context, token, method, path string) error {
	if token == "" {
		return ErrNoSession
	}

	userID, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		return err
	}

	grants, err := e.grants.GrantsForUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(grants) == 0 {
		return ErrNoGrants
	}

	action, ok := e.actions.ActionFor(method)
	if !ok {
		return ErrForbidden
	}

	if Allowed(grants, action, stripQuery(path), e.anchor) {
		return nil
	}
	return ErrForbidden
}

// Allowed runs the shared core of both enforcement points: any grant whose
// urlAccess carries a matching pattern for the action allows the request.
// There is no deny rule to override a match. Malformed urlAccess values grant
// nothing (policy-data faults fail closed).
func Allowed(grants []Grant, action Action, path string, anchor Anchor) bool {
	for _, grant := range grants {
		if grant.URLAccess == nil {
			continue
		}

		access, err := ParseAccess(*grant.URLAccess)
		if err != nil {
			log.Warn("treating permission as granting nothing: %v", err)
			continue
		}

		patterns, ok := access.Patterns(action)
		if !ok {
			continue
		}
		if MatchList(patterns, path, anchor) {
			return true
		}
	}
	return false
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
