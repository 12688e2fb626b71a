package log

import "strings"

// Redacted replaces the value of any field whose key looks like a credential.
const Redacted = "[REDACTED]"

var sensitiveKeyParts = []string{"token", "authorization", "secret", "password", "api_key", "apikey"}

// isSensitiveKey reports whether a field key names a credential.
func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(k, part) {
			return true
		}
	}
	return false
}

// setField stores a field, masking credentials.
func setField(fields map[string]any, key string, value any) {
	if isSensitiveKey(key) {
		fields[key] = Redacted
		return
	}
	fields[key] = value
}
