package utils

import (
	"encoding/json"
	"fmt"
)

// ParsePermissions normalises a permission set into a flat list of tags.
//
// The backend is inconsistent across endpoints: permissions arrive as a real
// array, as a JSON-encoded array inside a string, or as a bare tag string. An
// array is returned as-is. A string is JSON-decoded; a decoded array is
// returned, anything else yields the original string as the only tag. Empty
// input yields an empty, non-nil slice.
func ParsePermissions(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		if v == nil {
			return []string{}
		}
		return v
	case []any:
		return stringsOf(v)
	case string:
		return parsePermissionString(v)
	}
	return []string{}
}

func parsePermissionString(s string) []string {
	if s == "" {
		return []string{}
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return []string{s}
	}
	if arr, ok := decoded.([]any); ok {
		return stringsOf(arr)
	}
	return []string{s}
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, item := range values {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case nil:
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}
