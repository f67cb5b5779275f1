package redis

import "fmt"

// Key prefix for all service data
const keyPrefix = "ows"

// rateLimitKey returns the Redis key for a client's current window
func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}
