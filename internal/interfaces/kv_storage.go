package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key is not found in the key/value store
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStorage defines operations for generic key/value storage with
// optional expiry. Used for the inbound-event dedupe window and the
// research context cache.
type KeyValueStorage interface {
	// Get retrieves a value by key, returns ErrKeyNotFound if missing or expired
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or updates a key/value pair without expiry
	Set(ctx context.Context, key, value string) error

	// SetWithTTL inserts or updates a key/value pair that expires after ttl
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error

	// Has reports whether the key exists and has not expired
	Has(ctx context.Context, key string) bool

	// Delete removes a key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases the underlying store
	Close() error
}
