package cache

import "strings"

const (
	GlobalKeyPrefix = "cquiz"
)

// GenerateKey builds a storage key from a scope, object type and identifier.
// Extra params are joined by "_" and appended as a final segment.
func GenerateKey(scope, objectType, identifier string, params ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, scope, objectType, identifier}, ":")
	if len(params) > 0 {
		return strings.Join([]string{baseKey, strings.Join(params, "_")}, ":")
	}
	return baseKey
}

// ProgressKey is the key StudentProgress is persisted under.
func ProgressKey(studentID string) string {
	if studentID == "" {
		studentID = "default"
	}
	return GenerateKey("progress", "student", studentID)
}
