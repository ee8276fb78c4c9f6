// Package repository defines interfaces for data persistence
package repository

import (
	"context"
)

// KeyValueStore persists JSON-encoded collections under fixed keys. Get
// returns an empty string when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
