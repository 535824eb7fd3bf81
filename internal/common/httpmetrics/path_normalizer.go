package httpmetrics

import (
	"strings"

	"github.com/google/uuid"
)

const unmatchedPath = "/{unmatched}"

var routeTemplates = map[string]struct{}{
	"/":                      {},
	"/health":                {},
	"/metrics":               {},
	"/api/auth/registration": {},
	"/api/auth/login":        {},
	"/api/posts":             {},
	"/api/posts/me":          {},
	"/api/posts/create":      {},
	"/api/posts/{id}":        {},
	"/api/posts/update/{id}": {},
	"/api/posts/delete/{id}": {},
}

// NormalizePath maps a request path onto the route template that serves it
// so metric label cardinality stays bounded. Anything outside the route
// table is reported as a single unmatched label.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if isID(part) {
			parts[i] = "{id}"
		}
	}

	normalized := strings.Join(parts, "/")
	if _, ok := routeTemplates[normalized]; ok {
		return normalized
	}

	// Malformed ids are still answered by the post routes, with a 400.
	if len(parts) >= 4 && parts[1] == "api" && parts[2] == "posts" {
		switch {
		case len(parts) == 4 && parts[3] != "":
			return "/api/posts/{id}"
		case len(parts) == 5 && (parts[3] == "update" || parts[3] == "delete") && parts[4] != "":
			return "/api/posts/" + parts[3] + "/{id}"
		}
	}

	return unmatchedPath
}

func isID(s string) bool {
	if len(s) == 36 && uuid.Validate(s) == nil {
		return true
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
