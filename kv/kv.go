// Package kv defines the key-value store that holds all shared state: the
// serialized user list and the per-IP failure records. Implementations must
// be safe for concurrent use.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put unconditionally writes value under key.
	Put(ctx context.Context, key string, value []byte) error

	// CompareAndSwap writes value under key only if the current value is
	// byte-equal to old. A nil old means "only if the key does not exist".
	// It reports whether the swap happened.
	CompareAndSwap(ctx context.Context, key string, old []byte, value []byte) (bool, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key that starts with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)

	Close() error
}
