// Package cache defines an expiring key-value store with an attempt
// counter.  The allocation engine uses it for deposit-confirmation
// references: short-lived keys that an external payment callback must
// present.  The store is injected as an interface so tests run against
// the in-memory backend and deployments against Redis.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or has expired.
var ErrMiss = errors.New("cache miss")

// Store is an expiring key-value store.  All keys carry a TTL; a key
// whose TTL elapsed behaves exactly like one that never existed.
type Store interface {
	// Set writes value under key with the given TTL, replacing any
	// previous value and its attempt counter.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value for key or ErrMiss.
	Get(ctx context.Context, key string) (string, error)
	// Incr bumps an attempt counter stored next to key and returns the
	// new count.  The counter shares the key's lifetime: counting
	// against an expired or absent key starts at 1 with the given TTL.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Delete removes key and its counter.  Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
}
