package httpmetrics

import (
	"regexp"
	"strings"
)

const maxPathSegments = 3

var uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// NormalizePath keeps metric label cardinality bounded: ids and numbers
// become {param} and paths deeper than three segments are cut to "/...".
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	normalized := uuidRegex.ReplaceAllString(path, "{param}")

	parts := strings.Split(strings.Trim(normalized, "/"), "/")
	for i, part := range parts {
		if isNumeric(part) {
			parts[i] = "{param}"
		}
	}

	suffix := ""
	if len(parts) > maxPathSegments {
		parts = parts[:maxPathSegments]
		suffix = "/..."
	}

	return "/" + strings.Join(parts, "/") + suffix
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
