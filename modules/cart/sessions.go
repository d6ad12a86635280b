package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/storefront-inventory/domain/cart"
)

// ErrMissingSession is returned when a request carries no session id.
var ErrMissingSession = errors.New("session id is required")

// DefaultMaxSessions bounds the carts held in memory when no limit is set.
const DefaultMaxSessions = 10000

type openCart struct {
	store    *cart.Store
	lastUsed time.Time
}

// sessions lazily opens one cart store per shopper session. Once max carts
// are open the least recently used one is dropped; it is restored from its
// snapshot on the next request.
type sessions struct {
	mu        sync.Mutex
	stores    map[string]*openCart
	max       int
	persister cart.Persister
	logger    types.Logger
	now       func() time.Time
}

func newSessions(persister cart.Persister, logger types.Logger) *sessions {
	return &sessions{
		stores:    make(map[string]*openCart),
		max:       DefaultMaxSessions,
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
}

// get returns the session's store, restoring its snapshot on first use.
func (r *sessions) get(ctx context.Context, sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if open, ok := r.stores[sessionID]; ok {
		open.lastUsed = r.now()
		return open.store, nil
	}
	store, err := cart.Open(ctx, cart.StorageKey+":"+sessionID, r.persister, r.logger)
	if err != nil {
		return nil, err
	}
	if r.max > 0 && len(r.stores) >= r.max {
		r.evictOldest()
	}
	r.stores[sessionID] = &openCart{store: store, lastUsed: r.now()}
	r.logger.Debug("Cart session opened", "session_id", sessionID, "lines", store.TotalItems())
	return store, nil
}

// evictOldest must be called with mu held.
func (r *sessions) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, open := range r.stores {
		if oldestID == "" || open.lastUsed.Before(oldest) {
			oldestID, oldest = id, open.lastUsed
		}
	}
	if oldestID == "" {
		return
	}
	delete(r.stores, oldestID)
	r.logger.Debug("Cart session evicted", "session_id", oldestID, "idle_since", oldest)
}

func (r *sessions) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
