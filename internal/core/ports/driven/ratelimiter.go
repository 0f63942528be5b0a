package driven

// RateLimiter decides whether an expensive operation may run for a key.
type RateLimiter interface {
	// Allow reports whether one event for key may happen now, consuming
	// capacity if so.
	Allow(key string) bool
}
