package assetstore

import (
	"context"
	"os"
	"strings"
)

// ErrNotFound is returned when an asset does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
// The value is os.ErrNotExist, so missing files and missing objects are
// handled alike.
var ErrNotFound = os.ErrNotExist

// Store is a flat namespace of immutable assets.
type Store interface {
	// Get returns the content of name.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put stores data under name, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes name. Deleting a missing asset is not an error.
	Delete(ctx context.Context, name string) error
}

func hasPrefix(name, prefix string) bool {
	return prefix == "" || strings.HasPrefix(name, prefix)
}
