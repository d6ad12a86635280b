package wishlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
	"github.com/example/storefront-inventory/domain/wishlist"
	"github.com/example/storefront-inventory/events"
	catalogmodule "github.com/example/storefront-inventory/modules/catalog"
)

// ErrMissingSession is returned when a request carries no session id.
var ErrMissingSession = errors.New("session id is required")

// DefaultMaxSessions bounds the wishlists held in memory when no limit is set.
const DefaultMaxSessions = 10000

// ProductSource resolves a product by id.
type ProductSource interface {
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
}

type openWishlist struct {
	store    *wishlist.Store
	lastUsed time.Time
}

// Service runs wishlist commands against per-session stores. Once the
// session limit is reached the least recently used wishlist is dropped and
// restored from its snapshot on the next request.
type Service struct {
	mu          sync.Mutex
	stores      map[string]*openWishlist
	maxSessions int
	persister   wishlist.Persister
	products    ProductSource
	eventBus    mono.EventBus
	logger      types.Logger
	now         func() time.Time
}

// NewService creates a wishlist service. eventBus may be nil.
func NewService(persister wishlist.Persister, products ProductSource, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		stores:      make(map[string]*openWishlist),
		maxSessions: DefaultMaxSessions,
		persister:   persister,
		products:    products,
		eventBus:    eventBus,
		logger:      logger,
		now:         time.Now,
	}
}

// LimitSessions caps how many wishlists are held in memory. n <= 0 removes
// the cap.
func (s *Service) LimitSessions(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxSessions = n
}

func (s *Service) session(ctx context.Context, sessionID string) (*wishlist.Store, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if open, ok := s.stores[sessionID]; ok {
		open.lastUsed = s.now()
		return open.store, nil
	}
	store, err := wishlist.Open(ctx, wishlist.StorageKey+":"+sessionID, s.persister, s.logger)
	if err != nil {
		return nil, err
	}
	if s.maxSessions > 0 && len(s.stores) >= s.maxSessions {
		s.evictOldest()
	}
	s.stores[sessionID] = &openWishlist{store: store, lastUsed: s.now()}
	return store, nil
}

// evictOldest must be called with mu held.
func (s *Service) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, open := range s.stores {
		if oldestID == "" || open.lastUsed.Before(oldest) {
			oldestID, oldest = id, open.lastUsed
		}
	}
	if oldestID != "" {
		delete(s.stores, oldestID)
		s.logger.Debug("Wishlist session evicted", "session_id", oldestID)
	}
}

// Get returns the session's wishlist.
func (s *Service) Get(ctx context.Context, sessionID string) (WishlistView, error) {
	store, err := s.session(ctx, sessionID)
	if err != nil {
		return WishlistView{}, err
	}
	return viewOf(sessionID, store), nil
}

// AddItem adds a catalog product. Stock plays no part in wishlist membership.
func (s *Service) AddItem(ctx context.Context, req AddItemRequest) (AddItemResponse, error) {
	store, err := s.session(ctx, req.SessionID)
	if err != nil {
		return AddItemResponse{}, err
	}

	p, err := s.products.GetProduct(ctx, req.ProductID)
	if errors.Is(err, catalogmodule.ErrNotFound) {
		return AddItemResponse{
			Reason:   inventory.ReasonProductUnavailable,
			Wishlist: viewOf(req.SessionID, store),
		}, nil
	}
	if err != nil {
		return AddItemResponse{}, err
	}

	if !store.AddItem(ctx, *p) {
		return AddItemResponse{
			Reason:   inventory.ReasonDuplicateWishlistEntry,
			Wishlist: viewOf(req.SessionID, store),
		}, nil
	}

	if s.eventBus != nil {
		if err := events.WishlistItemAddedV1.Publish(s.eventBus, itemEvent(req.SessionID, req.ProductID), nil); err != nil {
			s.logger.Warn("Failed to publish wishlist ItemAdded event", "session_id", req.SessionID, "error", err)
		}
	}
	return AddItemResponse{Added: true, Wishlist: viewOf(req.SessionID, store)}, nil
}

// RemoveItem removes a product. Removing an absent product is a no-op.
func (s *Service) RemoveItem(ctx context.Context, req RemoveItemRequest) (RemoveItemResponse, error) {
	store, err := s.session(ctx, req.SessionID)
	if err != nil {
		return RemoveItemResponse{}, err
	}

	removed := store.RemoveItem(ctx, req.ProductID)
	if removed && s.eventBus != nil {
		if err := events.WishlistItemRemovedV1.Publish(s.eventBus, itemEvent(req.SessionID, req.ProductID), nil); err != nil {
			s.logger.Warn("Failed to publish wishlist ItemRemoved event", "session_id", req.SessionID, "error", err)
		}
	}
	return RemoveItemResponse{Removed: removed, Wishlist: viewOf(req.SessionID, store)}, nil
}

// RemoveAll empties the session's wishlist.
func (s *Service) RemoveAll(ctx context.Context, sessionID string) (int, error) {
	store, err := s.session(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return store.RemoveAll(ctx), nil
}

// Sessions reports how many wishlists are open.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

func itemEvent(sessionID, productID string) events.WishlistItemEvent {
	return events.WishlistItemEvent{
		SessionID: sessionID,
		ProductID: productID,
		Timestamp: time.Now(),
	}
}

func viewOf(sessionID string, store *wishlist.Store) WishlistView {
	items := store.Items()
	return WishlistView{SessionID: sessionID, Items: items, Total: len(items)}
}
