package httpmetrics

import (
	"strconv"
	"strings"
)

// NormalizePath collapses numeric path segments so per-id routes do not
// explode metric cardinality: /api/users/42 -> /api/users/:id.
func NormalizePath(path string) string {
	parts := strings.Split(path, "/")
	changed := false
	for i, part := range parts {
		if part == "" {
			continue
		}
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = ":id"
			changed = true
		}
	}
	if !changed {
		return path
	}
	return strings.Join(parts, "/")
}
