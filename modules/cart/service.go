package cart

import (
	"context"
	"errors"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/storefront-inventory/domain/cart"
	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
	"github.com/example/storefront-inventory/events"
	catalogmodule "github.com/example/storefront-inventory/modules/catalog"
)

// ProductSource resolves the current product for an add. The catalog
// adapter satisfies it.
type ProductSource interface {
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
}

// Service runs cart commands against per-session stores.
type Service struct {
	sessions *sessions
	products ProductSource
	eventBus mono.EventBus
	logger   types.Logger
}

// NewService creates a cart service. eventBus may be nil, in which case no
// events are published.
func NewService(persister cart.Persister, products ProductSource, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		sessions: newSessions(persister, logger),
		products: products,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Get returns the session's cart.
func (s *Service) Get(ctx context.Context, sessionID string) (CartView, error) {
	store, err := s.sessions.get(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return viewOf(sessionID, store), nil
}

// AddItem looks the product up and adds units of the requested variant.
func (s *Service) AddItem(ctx context.Context, req AddItemRequest) (AddItemResponse, error) {
	store, err := s.sessions.get(ctx, req.SessionID)
	if err != nil {
		return AddItemResponse{}, err
	}

	p, err := s.products.GetProduct(ctx, req.ProductID)
	if errors.Is(err, catalogmodule.ErrNotFound) {
		res, _ := resultOf(inventory.Reject(inventory.ReasonProductUnavailable, req.ProductID))
		return AddItemResponse{Result: res, Cart: viewOf(req.SessionID, store)}, nil
	}
	if err != nil {
		return AddItemResponse{}, err
	}

	sel := selectionFor(p, req.SizeID, req.ColorID)
	newLine, addErr := store.AddItem(ctx, p, req.Quantity, sel)
	res, err := resultOf(addErr)
	if err != nil {
		return AddItemResponse{}, err
	}

	if res.OK && s.eventBus != nil {
		key := cart.KeyOf(p.ID, sel)
		line, _ := store.Line(key)
		event := events.ItemAddedEvent{
			CartLineEvent: lineEvent(req.SessionID, key),
			Added:         req.Quantity,
			Quantity:      line.Quantity,
			NewLine:       newLine,
			Timestamp:     time.Now(),
		}
		if err := events.ItemAddedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish ItemAdded event", "session_id", req.SessionID, "error", err)
		}
	}

	return AddItemResponse{Result: res, NewLine: newLine, Cart: viewOf(req.SessionID, store)}, nil
}

// UpdateQuantity sets the quantity of an existing line.
func (s *Service) UpdateQuantity(ctx context.Context, req UpdateQuantityRequest) (CartResponse, error) {
	store, err := s.sessions.get(ctx, req.SessionID)
	if err != nil {
		return CartResponse{}, err
	}

	key := cart.LineKey{ProductID: req.ProductID, SizeID: req.SizeID, ColorID: req.ColorID}
	res, err := resultOf(store.UpdateQuantity(ctx, key, req.Quantity))
	if err != nil {
		return CartResponse{}, err
	}

	if res.OK && s.eventBus != nil {
		event := events.QuantityUpdatedEvent{
			CartLineEvent: lineEvent(req.SessionID, key),
			Quantity:      req.Quantity,
			Timestamp:     time.Now(),
		}
		if err := events.QuantityUpdatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish QuantityUpdated event", "session_id", req.SessionID, "error", err)
		}
	}

	return CartResponse{Result: res, Cart: viewOf(req.SessionID, store)}, nil
}

// RemoveItem drops one line. Removing a missing line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, req RemoveItemRequest) (RemoveItemResponse, error) {
	store, err := s.sessions.get(ctx, req.SessionID)
	if err != nil {
		return RemoveItemResponse{}, err
	}

	key := cart.LineKey{ProductID: req.ProductID, SizeID: req.SizeID, ColorID: req.ColorID}
	removed := store.RemoveItem(ctx, key)

	if removed && s.eventBus != nil {
		event := events.ItemRemovedEvent{
			CartLineEvent: lineEvent(req.SessionID, key),
			Timestamp:     time.Now(),
		}
		if err := events.ItemRemovedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish ItemRemoved event", "session_id", req.SessionID, "error", err)
		}
	}

	return RemoveItemResponse{Removed: removed, Cart: viewOf(req.SessionID, store)}, nil
}

// RemoveAll clears the session's cart.
func (s *Service) RemoveAll(ctx context.Context, sessionID string) (int, error) {
	store, err := s.sessions.get(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	cleared := store.RemoveAll(ctx)

	if cleared > 0 && s.eventBus != nil {
		event := events.CartClearedEvent{
			SessionID: sessionID,
			Lines:     cleared,
			Timestamp: time.Now(),
		}
		if err := events.CartClearedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish CartCleared event", "session_id", sessionID, "error", err)
		}
	}
	return cleared, nil
}

// Checkout serializes the cart and hands it to checkout through the
// CheckoutRequested event. The cart stays intact until the order completes.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	store, err := s.sessions.get(ctx, req.SessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}

	payload, checkoutErr := store.Checkout(req.PaymentMethod)
	res, err := resultOf(checkoutErr)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if !res.OK {
		return CheckoutResponse{Result: res}, nil
	}

	if s.eventBus != nil {
		lines := make([]events.CheckoutLine, 0, len(payload.Lines))
		for _, l := range payload.Lines {
			lines = append(lines, events.CheckoutLine(l))
		}
		event := events.CheckoutRequestedEvent{
			SessionID:     req.SessionID,
			Lines:         lines,
			TotalItems:    payload.TotalItems,
			TotalPrice:    payload.TotalPrice,
			PaymentMethod: payload.PaymentMethod,
			Timestamp:     time.Now(),
		}
		if err := events.CheckoutRequestedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish CheckoutRequested event", "session_id", req.SessionID, "error", err)
		}
	}

	s.logger.Info("Checkout requested",
		"session_id", req.SessionID,
		"lines", payload.TotalItems,
		"total", payload.TotalPrice.String())
	return CheckoutResponse{Result: res, Payload: &payload}, nil
}

// LimitSessions caps how many carts are held in memory. n <= 0 removes
// the cap.
func (s *Service) LimitSessions(n int) {
	s.sessions.mu.Lock()
	defer s.sessions.mu.Unlock()
	s.sessions.max = n
}

// Sessions reports how many carts are open.
func (s *Service) Sessions() int {
	return s.sessions.count()
}

// selectionFor maps requested ids onto the product's variant records. An id
// the product does not carry becomes a bare record so the resolver rejects
// it as unavailable rather than as missing.
func selectionFor(p *catalog.Product, sizeID, colorID string) inventory.Selection {
	var sel inventory.Selection
	if sizeID != "" {
		if size := p.FindSize(sizeID); size != nil {
			sel.Size = size
		} else {
			sel.Size = &catalog.Size{ID: sizeID}
		}
	}
	if colorID != "" {
		if color := p.FindColor(colorID); color != nil {
			sel.Color = color
		} else {
			sel.Color = &catalog.Color{ID: colorID}
		}
	}
	return sel
}

func viewOf(sessionID string, store *cart.Store) CartView {
	return CartView{
		SessionID:  sessionID,
		Items:      store.Items(),
		TotalItems: store.TotalItems(),
		TotalPrice: store.TotalPrice(),
	}
}

func lineEvent(sessionID string, key cart.LineKey) events.CartLineEvent {
	return events.CartLineEvent{
		SessionID: sessionID,
		ProductID: key.ProductID,
		SizeID:    key.SizeID,
		ColorID:   key.ColorID,
	}
}
