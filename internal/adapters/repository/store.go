// Package repository persists the user's board override order.
//
// A Store is a plain key-value store holding raw bytes under string keys.
// OverrideRepository sits on top of one and owns the single key the board
// order lives under.
package repository

import "context"

// Store provides read/write access to key-value state.
type Store interface {
	// Get returns the value stored under key. found is false, with a nil
	// error, when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the store's resources.
	Close() error
}
