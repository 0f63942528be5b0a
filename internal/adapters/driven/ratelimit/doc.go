// Package ratelimit provides token bucket limiters built on golang.org/x/time/rate.
//
// KeyedLimiter implements driven.RateLimiter with one bucket per key, used to
// bound how often a single chat may request idea generations. Idle buckets
// are evicted so memory stays proportional to active chats.
//
// Throttle paces calls to an upstream API and honours retry-after backoff
// reported by that API.
package ratelimit
