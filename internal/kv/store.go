// Package kv defines the atomic key/value contract the orchestration core
// relies on for session persistence, idempotency markers, and per-session
// locks, plus two implementations: a Redis-backed store for production
// and an in-memory fake for tests and standalone runs.
package kv

import (
	"context"
	"time"
)

// Store is the atomic key/value interface the orchestration core
// depends on. Every operation must be atomic with respect to concurrent
// callers.
type Store interface {
	// Get returns the stored bytes, or (nil, false) if the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// SetEx unconditionally stores value with a TTL.
	SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error

	// Exists reports whether key is currently present.
	Exists(ctx context.Context, key string) (bool, error)

	// TryAcquireLock sets lockKey to holder with ttl, but only if lockKey is
	// absent. Returns true iff this call won the lock.
	TryAcquireLock(ctx context.Context, lockKey, holder string, ttl time.Duration) (bool, error)

	// ReleaseLock clears lockKey, but only if its current value equals
	// holder — so a late owner (e.g. after a timeout) cannot drop a
	// successor's lock.
	ReleaseLock(ctx context.Context, lockKey, holder string) error

	// CASUpdate atomically replaces key's value with newValue iff the
	// stored value currently equals expected. A nil expected means "key
	// must be absent". Returns true iff the write happened.
	CASUpdate(ctx context.Context, key string, expected, newValue []byte, ttl time.Duration) (bool, error)
}
