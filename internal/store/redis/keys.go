package redis

const (
	// KeyDocument holds the JSON-encoded store document
	KeyDocument = "linkbot:document"
	// KeyPrefixSearch is the prefix for cached search outcomes
	KeyPrefixSearch = "linkbot:search:"
)

// SearchKey returns the Redis key for a cached search outcome
func SearchKey(key string) string {
	return KeyPrefixSearch + key
}
