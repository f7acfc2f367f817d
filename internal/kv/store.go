package kv

import (
	"context"
)

// Store is a scoped, string-keyed persistent store. Values are opaque to
// the store; readers own the interpretation of what they wrote.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
