// Package storage provides durable client-side key/value storage, the
// equivalent of a browser's localStorage. The bearer token lives here.
package storage

import (
	"context"
	"errors"
)

// DefaultTokenKey is the well-known key the bearer token is stored under.
const DefaultTokenKey = "token"

var ErrEmptyKey = errors.New("storage key is empty")

// Storage is a string key/value store that survives process restarts.
type Storage interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
