// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonx locates JSON embedded in free-form model output. The oracle
// is asked to return bare JSON but routinely wraps it in prose or code
// fences; callers take the first balanced array or object and ignore the
// rest. Absence is reported with a false second return, never an error.
package jsonx

import "encoding/json"

// FirstArray returns the first balanced JSON array in s. The second return
// is false when no parseable array exists.
func FirstArray(s string) (json.RawMessage, bool) {
	return first(s, '[', ']')
}

// FirstObject returns the first balanced JSON object in s. The second
// return is false when no parseable object exists.
func FirstObject(s string) (json.RawMessage, bool) {
	return first(s, '{', '}')
}

// first scans for open, tracks nesting depth until the matching closer, and
// validates the candidate substring. String literals and escapes are honored
// so brackets inside quoted text do not affect the depth count. When a
// balanced candidate fails validation the scan resumes at the next opener.
func first(s string, open, closer byte) (json.RawMessage, bool) {
	for start := 0; start < len(s); start++ {
		if s[start] != open {
			continue
		}

		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(s); i++ {
			c := s[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\' && inString:
				escaped = true
			case c == '"':
				inString = !inString
			case inString:
			case c == open:
				depth++
			case c == closer:
				depth--
				if depth == 0 {
					candidate := s[start : i+1]
					if json.Valid([]byte(candidate)) {
						return json.RawMessage(candidate), true
					}
					i = len(s) // abandon this opener
				}
			}
		}
	}
	return nil, false
}
