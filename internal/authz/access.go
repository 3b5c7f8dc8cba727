package authz

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformedAccess marks a stored urlAccess/urlRestrict value that could not
// be parsed even after cleanup. Callers treat the permission as granting
// nothing; the error never turns into an HTTP failure on its own.
var ErrMalformedAccess = errors.New("malformed url access value")

// Access is the typed form of a stored urlAccess/urlRestrict JSON object.
// Each field is either nil (no grant for that action) or a comma-separated
// list of URL patterns. Raw JSON strings are parsed into this at the boundary
// and never passed around untyped.
type Access struct {
	Create *string `json:"create"`
	Read   *string `json:"read"`
	Update *string `json:"update"`
	Delete *string `json:"delete"`
}

var (
	trailingComma = regexp.MustCompile(`,\s*$`)
	danglingComma = regexp.MustCompile(`,\s*}`)
)

// ParseAccess parses a stored urlAccess/urlRestrict string. The admin UI has
// historically written values with a trailing comma, either after the closing
// brace or dangling before it; both are stripped before parsing. Anything
// still unparseable is reported as ErrMalformedAccess.
func ParseAccess(raw string) (*Access, error) {
	cleaned := trailingComma.ReplaceAllString(raw, "")
	cleaned = danglingComma.ReplaceAllString(cleaned, "}")

	var access Access
	if err := json.Unmarshal([]byte(cleaned), &access); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAccess, err)
	}
	return &access, nil
}

// Patterns returns the pattern list granted for an action. An absent key, a
// JSON null and an empty string all mean no grant.
func (a *Access) Patterns(action Action) (string, bool) {
	var value *string
	switch action {
	case ActionCreate:
		value = a.Create
	case ActionRead:
		value = a.Read
	case ActionUpdate:
		value = a.Update
	case ActionDelete:
		value = a.Delete
	}

	if value == nil || *value == "" {
		return "", false
	}
	return *value, true
}
