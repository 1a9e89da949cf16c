// Package kv provides durable key-value backends for the mock goal store.
// Each backend stores opaque byte blocks under string keys and always
// overwrites on Set.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
