package snapshot

import (
	"context"
	"fmt"
	"time"
)

// KV is the subset of a gofiber storage driver the snapshot store needs.
// github.com/gofiber/storage/redis/v3 satisfies it.
type KV interface {
	GetWithContext(ctx context.Context, key string) ([]byte, error)
	SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error
	DeleteWithContext(ctx context.Context, key string) error
	Close() error
}

// kvStore stores snapshots in a key/value driver under a prefix.
type kvStore struct {
	kv     KV
	prefix string
	ttl    time.Duration
}

// NewKVStore wraps a key/value driver. A zero ttl keeps snapshots forever.
func NewKVStore(kv KV, prefix string, ttl time.Duration) Store {
	return &kvStore{kv: kv, prefix: prefix, ttl: ttl}
}

func (s *kvStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.kv.GetWithContext(ctx, s.prefix+key)
	if err != nil {
		return false, fmt.Errorf("snapshot get error for %q: %w", key, err)
	}
	// gofiber drivers report a miss as nil data with a nil error
	if len(data) == 0 {
		return false, nil
	}
	return true, decode(key, data, dest)
}

func (s *kvStore) Save(ctx context.Context, key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	if err := s.kv.SetWithContext(ctx, s.prefix+key, data, s.ttl); err != nil {
		return fmt.Errorf("snapshot set error for %q: %w", key, err)
	}
	return nil
}

func (s *kvStore) Delete(ctx context.Context, key string) error {
	if err := s.kv.DeleteWithContext(ctx, s.prefix+key); err != nil {
		return fmt.Errorf("snapshot delete error for %q: %w", key, err)
	}
	return nil
}

func (s *kvStore) Close() error {
	return s.kv.Close()
}
