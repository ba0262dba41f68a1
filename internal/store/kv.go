// Package store persists the application state as a handful of CBOR
// values in a flat key-value backend. Three backends are provided: an
// in-process map, Redis and MySQL.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key has never been written
// or was deleted.
var ErrNotFound = errors.New("store: key not found")

// KV is a flat byte-valued key-value backend. Apply writes every entry in
// set and removes every key in del as one atomic unit.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Apply(ctx context.Context, set map[string][]byte, del []string) error
	Close() error
}
