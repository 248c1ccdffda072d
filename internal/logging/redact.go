package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	keySegments   = regexp.MustCompile(`[^a-z0-9]+`)
	sensitiveWord = map[string]bool{
		"key": true, "token": true, "secret": true,
		"password": true, "auth": true, "credential": true,
	}
)

// sensitiveKey reports whether one of key's segments is a secret-bearing word, so
// "api_key" and "X-Auth-Token" match but "monkey" does not.
func sensitiveKey(key string) bool {
	for _, seg := range keySegments.Split(strings.ToLower(key), -1) {
		if sensitiveWord[seg] {
			return true
		}
	}
	return false
}

// redactPairs masks the values of sensitive keys in a flattened key/value list, and
// sensitive entries of map values such as a dump of the configuration. pairs is not modified.
func redactPairs(pairs []any) []any {
	out := make([]any, len(pairs))
	copy(out, pairs)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && sensitiveKey(key) {
			out[i+1] = redacted
			continue
		}
		out[i+1] = redactValue(out[i+1])
	}
	return out
}

func redactValue(v any) any {
	switch m := v.(type) {
	case map[string]string:
		clean := make(map[string]string, len(m))
		for k, val := range m {
			if sensitiveKey(k) {
				val = redacted
			}
			clean[k] = val
		}
		return clean
	case map[string]any:
		clean := make(map[string]any, len(m))
		for k, val := range m {
			if sensitiveKey(k) {
				clean[k] = redacted
			} else {
				clean[k] = redactValue(val)
			}
		}
		return clean
	}
	return v
}
