package cache

import (
	"fmt"
	"strconv"
)

// Key namespaces owned by the user service. Invalidation is prefix based, so
// these must stay distinct: "user:" never prefixes an age-range key and vice
// versa.
const (
	// UserKeyPrefix namespaces single-record keys: user:{id}.
	UserKeyPrefix = "user:"

	// AgeRangeKeyPrefix namespaces range-query keys: users:age:{min}:{max}.
	AgeRangeKeyPrefix = "users:age:"
)

// UserKey builds the cache key for a single user record.
func UserKey(id int64) string {
	return UserKeyPrefix + strconv.FormatInt(id, 10)
}

// AgeRangeKey builds the cache key for an age-range query result. The bounds
// are part of the key, so distinct ranges cache independently.
func AgeRangeKey(minAge, maxAge int) string {
	return fmt.Sprintf("%s%d:%d", AgeRangeKeyPrefix, minAge, maxAge)
}
