package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/storefront-inventory/events"
)

// CartClearer empties a session's cart. The cart adapter satisfies it.
type CartClearer interface {
	RemoveAll(ctx context.Context, sessionID string) (int, error)
}

// Service completes orders against the ledger.
type Service struct {
	ledger   *Ledger
	carts    CartClearer
	eventBus mono.EventBus
	logger   types.Logger
	now      func() time.Time
}

// NewService creates a checkout service. eventBus may be nil.
func NewService(ledger *Ledger, carts CartClearer, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		ledger:   ledger,
		carts:    carts,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// CompleteOrder clears the shopper's cart and marks the handoff paid. The
// handoff stays pending when the cart cannot be cleared, so the call can be
// retried.
func (s *Service) CompleteOrder(ctx context.Context, req CompleteOrderRequest) (CompleteOrderResponse, error) {
	if req.SessionID == "" {
		return CompleteOrderResponse{Error: "session id is required"}, nil
	}

	pending, err := s.ledger.Pending(req.SessionID, req.HandoffID)
	if errors.Is(err, ErrNoPendingHandoff) {
		return CompleteOrderResponse{Error: err.Error()}, nil
	}
	if err != nil {
		return CompleteOrderResponse{}, err
	}

	freed, err := s.carts.RemoveAll(ctx, req.SessionID)
	if err != nil {
		s.logger.Error("Failed to clear cart, handoff left pending",
			"session_id", req.SessionID,
			"handoff_id", pending.ID,
			"error", err)
		return CompleteOrderResponse{}, fmt.Errorf("failed to clear cart for session %s: %w", req.SessionID, err)
	}

	// a concurrent completion may have won the race
	handoff, err := s.ledger.Complete(req.SessionID, pending.ID, s.now())
	if errors.Is(err, ErrNoPendingHandoff) {
		return CompleteOrderResponse{Error: err.Error()}, nil
	}
	if err != nil {
		return CompleteOrderResponse{}, err
	}

	if s.eventBus != nil {
		event := events.OrderCompletedEvent{
			SessionID:   req.SessionID,
			HandoffID:   handoff.ID,
			LinesFreed:  freed,
			CompletedAt: *handoff.CompletedAt,
		}
		if err := events.OrderCompletedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish OrderCompleted event", "handoff_id", handoff.ID, "error", err)
		}
	}

	s.logger.Info("Order completed",
		"session_id", req.SessionID,
		"handoff_id", handoff.ID,
		"lines_freed", freed)
	return CompleteOrderResponse{Completed: true, Handoff: &handoff, LinesFreed: freed}, nil
}

// Handoffs lists recorded handoffs.
func (s *Service) Handoffs(sessionID string) []Handoff {
	return s.ledger.List(sessionID)
}
