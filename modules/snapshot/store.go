// Package snapshot provides durable key/value storage for store snapshots
// as a mono plugin module. Values are JSON encoded by every backend, so a
// snapshot reloads the same way regardless of where it was written.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store persists JSON snapshots under stable keys.
type Store interface {
	// Load decodes the snapshot under key into dest. It returns false when
	// no snapshot exists.
	Load(ctx context.Context, key string, dest any) (bool, error)

	// Save replaces the snapshot under key.
	Save(ctx context.Context, key string, value any) error

	// Delete removes the snapshot under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

func encode(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("snapshot marshal error for %q: %w", key, err)
	}
	return data, nil
}

func decode(key string, data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("snapshot unmarshal error for %q: %w", key, err)
	}
	return nil
}
