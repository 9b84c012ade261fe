package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "detranquiz"

	catalogService = "catalog"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// TopicsKey holds the JSON-encoded topic list.
func TopicsKey() string {
	return GenerateCacheKey(catalogService, "topics", "all")
}

// SubtopicsKey holds the JSON-encoded subtopics of one topic.
func SubtopicsKey(topicID int64) string {
	return GenerateCacheKey(catalogService, "subtopics", strconv.FormatInt(topicID, 10))
}
