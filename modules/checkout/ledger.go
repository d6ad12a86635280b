// Package checkout stands in for the external checkout flow. It records the
// cart payloads handed off through CheckoutRequested events and, when an
// order completes, clears the shopper's cart.
package checkout

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront-inventory/events"
)

// ErrNoPendingHandoff is returned when there is nothing to complete.
var ErrNoPendingHandoff = errors.New("no pending checkout handoff")

// Status is a handoff's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Handoff is one cart payload received from the cart module.
type Handoff struct {
	ID            string                `json:"id"`
	SessionID     string                `json:"session_id"`
	Lines         []events.CheckoutLine `json:"lines"`
	TotalItems    int                   `json:"total_items"`
	TotalPrice    decimal.Decimal       `json:"total_price"`
	PaymentMethod string                `json:"payment_method"`
	Status        Status                `json:"status"`
	RequestedAt   time.Time             `json:"requested_at"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
}

// Ledger keeps handoffs in memory.
type Ledger struct {
	mu       sync.RWMutex
	handoffs []Handoff
}

func NewLedger() *Ledger {
	return &Ledger{handoffs: make([]Handoff, 0)}
}

// Record stores a pending handoff for the event.
func (l *Ledger) Record(event events.CheckoutRequestedEvent) Handoff {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := Handoff{
		ID:            uuid.New().String(),
		SessionID:     event.SessionID,
		Lines:         event.Lines,
		TotalItems:    event.TotalItems,
		TotalPrice:    event.TotalPrice,
		PaymentMethod: event.PaymentMethod,
		Status:        StatusPending,
		RequestedAt:   event.Timestamp,
	}
	l.handoffs = append(l.handoffs, h)
	return h
}

// Pending returns a pending handoff without changing it. An empty handoffID
// selects the session's most recent pending handoff.
func (l *Ledger) Pending(sessionID, handoffID string) (Handoff, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.pendingIndex(sessionID, handoffID)
	if i < 0 {
		return Handoff{}, ErrNoPendingHandoff
	}
	return l.handoffs[i], nil
}

// Complete marks a pending handoff completed. An empty handoffID selects
// the session's most recent pending handoff.
func (l *Ledger) Complete(sessionID, handoffID string, at time.Time) (Handoff, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.pendingIndex(sessionID, handoffID)
	if i < 0 {
		return Handoff{}, ErrNoPendingHandoff
	}
	h := &l.handoffs[i]
	h.Status = StatusCompleted
	h.CompletedAt = &at
	return *h, nil
}

// pendingIndex must be called with mu held.
func (l *Ledger) pendingIndex(sessionID, handoffID string) int {
	for i := len(l.handoffs) - 1; i >= 0; i-- {
		h := l.handoffs[i]
		if h.SessionID != sessionID || h.Status != StatusPending {
			continue
		}
		if handoffID != "" && h.ID != handoffID {
			continue
		}
		return i
	}
	return -1
}

// List returns handoffs newest first, filtered by session when sessionID is
// not empty.
func (l *Ledger) List(sessionID string) []Handoff {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Handoff, 0, len(l.handoffs))
	for _, h := range l.handoffs {
		if sessionID == "" || h.SessionID == sessionID {
			result = append(result, h)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RequestedAt.After(result[j].RequestedAt)
	})
	return result
}
