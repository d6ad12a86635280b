// Package wishlist implements the persisted wishlist. Membership is keyed by
// product id and is independent of stock.
package wishlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/storefront-inventory/domain/catalog"
)

// StorageKey is the snapshot key prefix for wishlists.
const StorageKey = "wishlist-storage"

// Persister saves and restores JSON snapshots under a key.
type Persister interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Store is one shopper's wishlist.
type Store struct {
	mu        sync.Mutex
	key       string
	items     []catalog.Product
	persister Persister
	logger    types.Logger
}

// NewStore creates an empty wishlist persisted under key.
func NewStore(key string, persister Persister, logger types.Logger) *Store {
	return &Store{
		key:       key,
		items:     make([]catalog.Product, 0),
		persister: persister,
		logger:    logger,
	}
}

// Open creates a wishlist and restores its snapshot, if any.
func Open(ctx context.Context, key string, persister Persister, logger types.Logger) (*Store, error) {
	s := NewStore(key, persister, logger)
	if persister == nil {
		return s, nil
	}

	var items []catalog.Product
	found, err := persister.Load(ctx, key, &items)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist snapshot %q: %w", key, err)
	}
	if found && items != nil {
		s.items = items
	}
	return s, nil
}

// AddItem appends p unless a product with the same id is already present.
// It returns false for the already-present case.
func (s *Store) AddItem(ctx context.Context, p catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return false
	}
	s.items = append(s.items, p.Clone())
	s.persist(ctx)
	return true
}

// RemoveItem removes the product if present and reports whether it was.
func (s *Store) RemoveItem(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persist(ctx)
	return true
}

// RemoveAll empties the wishlist and drops its snapshot.
func (s *Store) RemoveAll(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	s.items = make([]catalog.Product, 0)
	if s.persister != nil {
		if err := s.persister.Delete(ctx, s.key); err != nil && s.logger != nil {
			s.logger.Warn("Failed to delete wishlist snapshot", "key", s.key, "error", err)
		}
	}
	return n
}

// Contains reports whether the product is on the wishlist.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

// Items returns deep copies of the wishlist products in insertion order.
func (s *Store) Items() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]catalog.Product, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.key, s.items); err != nil && s.logger != nil {
		s.logger.Warn("Failed to persist wishlist snapshot", "key", s.key, "error", err)
	}
}
