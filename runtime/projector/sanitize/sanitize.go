// Package sanitize redacts sensitive-looking keys and truncates oversized
// string values out of arbitrary JSON-shaped data before it reaches a
// client stream, recording a StreamNotice for every alteration it makes.
package sanitize

import (
	"fmt"
	"strings"
)

// Notice mirrors projector.StreamNotice without importing the parent
// package, so this package stays free of a dependency cycle.
type Notice struct {
	Type    string
	Path    string
	Message string
}

var sensitiveKeySubstrings = [...]string{
	"api_key", "apikey", "authorization", "token", "secret", "password",
	"passphrase", "bearer", "client_secret", "access_token", "refresh_token",
	"id_token",
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sub := range sensitiveKeySubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// TruncateString truncates value to maxChars, returning a Notice when it
// had to cut anything.
func TruncateString(value, path string, maxChars int) (string, *Notice) {
	if len(value) <= maxChars {
		return value, nil
	}
	return value[:maxChars], &Notice{
		Type:    "truncated",
		Path:    path,
		Message: "Large content was truncated for streaming stability.",
	}
}

// JSON recursively walks obj, redacting values under sensitive-looking
// keys and truncating long strings, returning the sanitized copy plus
// every Notice it generated along the way.
func JSON(obj any, path string, maxStringChars int) (any, []Notice) {
	var notices []Notice
	out := sanitizeValue(obj, path, maxStringChars, &notices)
	return out, notices
}

func sanitizeValue(obj any, path string, maxStringChars int, notices *[]Notice) any {
	switch v := obj.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			childPath := path + "." + key
			if isSensitiveKey(key) {
				result[key] = "<redacted>"
				*notices = append(*notices, Notice{
					Type:    "redacted",
					Path:    childPath,
					Message: "Some fields were redacted for safety.",
				})
				continue
			}
			result[key] = sanitizeValue(val, childPath, maxStringChars, notices)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for idx, item := range v {
			childPath := fmt.Sprintf("%s[%d]", path, idx)
			result[idx] = sanitizeValue(item, childPath, maxStringChars, notices)
		}
		return result
	case string:
		truncated, notice := TruncateString(v, path, maxStringChars)
		if notice != nil {
			*notices = append(*notices, *notice)
		}
		return truncated
	default:
		return obj
	}
}
