package authz

import "strings"

// Action is one of the four CRUD operations a grant can carry patterns for.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActionMap translates an HTTP verb (lowercased) into a CRUD action. A verb
// missing from the map yields no action, which callers treat as a deny.
type ActionMap map[string]Action

// ServerActions is the mapping enforced by the request gate. Note PUT maps to
// delete: the API uses PUT on detail routes as a soft-delete verb, and the
// grant model follows that convention.
var ServerActions = ActionMap{
	"get":    ActionRead,
	"post":   ActionCreate,
	"put":    ActionDelete,
	"patch":  ActionUpdate,
	"delete": ActionDelete,
}

// ClientActions is the mapping used by UI-visibility checks. It disagrees with
// ServerActions on PUT (update here, delete there). The disagreement is
// inherited behavior and is kept visible rather than quietly reconciled; the
// server map is the authoritative one at enforcement time.
var ClientActions = ActionMap{
	"get":    ActionRead,
	"post":   ActionCreate,
	"put":    ActionUpdate,
	"patch":  ActionUpdate,
	"delete": ActionDelete,
}

// ActionFor resolves an HTTP method, case-insensitively.
func (m ActionMap) ActionFor(method string) (Action, bool) {
	action, ok := m[strings.ToLower(method)]
	return action, ok
}
