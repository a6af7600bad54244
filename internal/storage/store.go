// Package storage holds the key-value backends the repositories persist to.
// Each key maps to one serialized document that is read and replaced whole.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns ErrNotFound when key has never been set or was removed
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove succeeds when key does not exist
	Remove(ctx context.Context, key string) error
}
