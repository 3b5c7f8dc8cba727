package authz

import (
	"regexp"
	"strings"
	"sync"
)

// Anchor selects how a compiled pattern is pinned against the request path.
// The request gate requires the whole path to match; UI checks only require
// the pattern to match a prefix of the mapped route.
type Anchor int

const (
	AnchorExact Anchor = iota
	AnchorPrefix
)

var (
	verbPrefix   = regexp.MustCompile(`^(get|post|put|patch|delete):`)
	paramSegment = regexp.MustCompile(`:\w+`)
)

type patternKey struct {
	pattern string
	anchor  Anchor
}

// Stored patterns are finite and change only through the admin screens, so
// compiled matchers are cached for the life of the process instead of being
// rebuilt per request.
var (
	patternMu    sync.RWMutex
	patternCache = map[patternKey]*regexp.Regexp{}
)

// compilePattern turns a single stored pattern into a matcher. An optional
// "<verb>:" prefix is stripped and otherwise ignored, and each ":name" path
// parameter matches exactly one non-empty path segment.
func compilePattern(pattern string, anchor Anchor) (*regexp.Regexp, error) {
	key := patternKey{pattern: pattern, anchor: anchor}

	patternMu.RLock()
	re, ok := patternCache[key]
	patternMu.RUnlock()
	if ok {
		return re, nil
	}

	clean := verbPrefix.ReplaceAllString(pattern, "")
	expr := paramSegment.ReplaceAllString(clean, "[^/]+")
	expr = strings.ReplaceAll(expr, "/", `\/`)
	if anchor == AnchorExact {
		expr = "^" + expr + "$"
	} else {
		expr = "^" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	patternMu.Lock()
	patternCache[key] = re
	patternMu.Unlock()
	return re, nil
}

// MatchList tests a request path against a comma-separated pattern list.
// The list matches if any single pattern matches. A pattern that fails to
// compile grants nothing.
func MatchList(patterns, path string, anchor Anchor) bool {
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		re, err := compilePattern(pattern, anchor)
		if err != nil {
			log.Warn("skipping uncompilable URL pattern %q: %v", pattern, err)
			continue
		}
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
