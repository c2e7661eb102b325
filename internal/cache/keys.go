package cache

import "strings"

const (
	GlobalKeyPrefix = "studyagent"

	SessionServiceName = "session"
	SessionStateType   = "state"
)

// GenerateCacheKey builds "<prefix>:<service>:<type>:<id>". Extra params are
// joined by "_" and appended as one more segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SessionStateKey is where a study session's state is stored.
func SessionStateKey(sessionID string) string {
	return GenerateCacheKey(SessionServiceName, SessionStateType, sessionID)
}
