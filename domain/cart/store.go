package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/shopspring/decimal"

	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
)

// StorageKey is the snapshot key prefix for carts.
const StorageKey = "cart-storage"

// Persister saves and restores JSON snapshots under a key.
type Persister interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Store is one shopper's cart. Every public method is a single state
// transition; a successful mutation is followed by a snapshot write whose
// failure is logged and does not undo the mutation.
type Store struct {
	mu        sync.Mutex
	key       string
	items     []Item
	persister Persister
	logger    types.Logger
}

// NewStore creates an empty cart persisted under key. persister and logger
// may be nil.
func NewStore(key string, persister Persister, logger types.Logger) *Store {
	return &Store{
		key:       key,
		items:     make([]Item, 0),
		persister: persister,
		logger:    logger,
	}
}

// Open creates a cart and restores its snapshot, if any. Restored lines are
// trusted as stored and not checked against current stock.
func Open(ctx context.Context, key string, persister Persister, logger types.Logger) (*Store, error) {
	s := NewStore(key, persister, logger)
	if persister == nil {
		return s, nil
	}

	var items []Item
	found, err := persister.Load(ctx, key, &items)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart snapshot %q: %w", key, err)
	}
	if found && items != nil {
		s.items = items
	}
	return s, nil
}

// Key returns the snapshot key.
func (s *Store) Key() string {
	return s.key
}

// AddItem adds quantity units of p with the given selection, merging into
// an existing line with the same identity. A merge keeps the line's product
// snapshot, so units already in the cart keep their price. It reports
// whether a new line was created. On rejection the cart is unchanged.
func (s *Store) AddItem(ctx context.Context, p *catalog.Product, quantity int, sel inventory.Selection) (bool, error) {
	if quantity < 1 {
		return false, inventory.Reject(inventory.ReasonInvalidQuantity, p.ID)
	}
	resolved, available, err := inventory.ResolveSelection(p, sel)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(KeyOf(p.ID, resolved))
	existing := 0
	if idx >= 0 {
		existing = s.items[idx].Quantity
	}
	if quantity > available-existing {
		return false, inventory.InsufficientStock(p.ID, available-existing)
	}

	if idx >= 0 {
		s.items[idx].Quantity = existing + quantity
	} else {
		s.items = append(s.items, newItem(p, quantity, resolved))
	}
	s.persist(ctx)
	return idx < 0, nil
}

// UpdateQuantity sets the quantity of an existing line, checked against the
// line's own product snapshot.
func (s *Store) UpdateQuantity(ctx context.Context, key LineKey, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 {
		return inventory.Reject(inventory.ReasonLineNotFound, key.ProductID)
	}
	if quantity < 1 {
		return inventory.Reject(inventory.ReasonInvalidQuantity, key.ProductID)
	}

	line := &s.items[idx]
	available := inventory.AvailableQuantity(&line.Product, line.Selection())
	if quantity > available {
		return inventory.InsufficientStock(key.ProductID, available)
	}

	line.Quantity = quantity
	s.persist(ctx)
	return nil
}

// RemoveItem deletes the line with the given identity. Removing a missing
// line is a no-op. It reports whether a line was removed.
func (s *Store) RemoveItem(ctx context.Context, key LineKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 {
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persist(ctx)
	return true
}

// RemoveAll clears the cart, drops its snapshot and returns how many lines
// were dropped.
func (s *Store) RemoveAll(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	s.items = make([]Item, 0)
	if s.persister != nil {
		if err := s.persister.Delete(ctx, s.key); err != nil && s.logger != nil {
			s.logger.Warn("Failed to delete cart snapshot", "key", s.key, "error", err)
		}
	}
	return n
}

// Items returns deep copies of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	for i, item := range s.items {
		out[i] = item.clone()
	}
	return out
}

// Line returns the line with the given identity.
func (s *Store) Line(key LineKey) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(key); idx >= 0 {
		return s.items[idx].clone(), true
	}
	return Item{}, false
}

// TotalItems returns the number of lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalPrice sums each line's snapshotted price times its quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.items)
}

func totalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (s *Store) indexOf(key LineKey) int {
	for i := range s.items {
		if s.items[i].Key() == key {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.key, s.items); err != nil && s.logger != nil {
		s.logger.Warn("Failed to persist cart snapshot",
			"key", s.key,
			"lines", len(s.items),
			"error", err)
	}
}
