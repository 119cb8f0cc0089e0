package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}

func SearchIntentKey(queryHash string) string {
	return fmt.Sprintf("search:intent:%s", queryHash)
}

// QueryHash returns a stable hex digest of a free-text query. Case and runs of
// whitespace do not affect the result.
func QueryHash(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
