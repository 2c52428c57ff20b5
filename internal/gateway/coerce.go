// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// Tool servers return loosely typed JSON: a field documented as a string may
// arrive as a list, a year as a float or numeric string. These helpers
// coerce loose values instead of dropping them.

// Str renders a loose value as a string. Lists are joined with "; ",
// nil becomes "".
func Str(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, Str(item))
		}
		return strings.Join(parts, "; ")
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// StrList renders a loose value as a string slice. Strings are split on
// commas, nil becomes nil, anything else becomes a single element.
func StrList(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := Str(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []string{Str(v)}
	}
}

// Int renders a loose value as an int, defaulting to 0.
func Int(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// List returns a loose value as a slice of objects, skipping non-object
// elements. Nil and non-list values become nil.
func List(val any) []map[string]any {
	items, ok := val.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
