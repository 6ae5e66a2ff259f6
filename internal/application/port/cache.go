package port

// Cache is a generic bounded cache for storing key-value pairs.
// Implementations should be thread-safe.
type Cache[K comparable, V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// or the zero value and false if not found.
	Get(key K) (V, bool)

	// Set stores a value for the given key. If the cache is at capacity,
	// older entries are evicted according to the implementation's policy.
	// It returns the keys evicted to make room.
	Set(key K, value V) []K

	// Contains reports whether key is resident without affecting eviction order.
	Contains(key K) bool

	// Len returns the number of items currently in the cache.
	Len() int

	// Keys returns the resident keys in eviction order, next victim first.
	Keys() []K
}
