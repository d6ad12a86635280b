// Package events holds the typed event definitions shared between modules.
package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
	"github.com/shopspring/decimal"
)

// CartLineEvent identifies a cart line in an event.
type CartLineEvent struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
}

// ItemAddedEvent is emitted when units are added to a cart line.
type ItemAddedEvent struct {
	CartLineEvent
	Added     int       `json:"added"`
	Quantity  int       `json:"quantity"`
	NewLine   bool      `json:"new_line"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemAddedV1 is the typed event definition for cart additions.
// Subject: events.cart.v1.item-added
var ItemAddedV1 = helper.EventDefinition[ItemAddedEvent](
	"cart", "ItemAdded", "v1",
)

// QuantityUpdatedEvent is emitted when a line's quantity is set.
type QuantityUpdatedEvent struct {
	CartLineEvent
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// QuantityUpdatedV1 is the typed event definition for quantity changes.
// Subject: events.cart.v1.quantity-updated
var QuantityUpdatedV1 = helper.EventDefinition[QuantityUpdatedEvent](
	"cart", "QuantityUpdated", "v1",
)

// ItemRemovedEvent is emitted when a line is removed.
type ItemRemovedEvent struct {
	CartLineEvent
	Timestamp time.Time `json:"timestamp"`
}

// ItemRemovedV1 is the typed event definition for line removals.
// Subject: events.cart.v1.item-removed
var ItemRemovedV1 = helper.EventDefinition[ItemRemovedEvent](
	"cart", "ItemRemoved", "v1",
)

// CartClearedEvent is emitted when every line is dropped at once.
type CartClearedEvent struct {
	SessionID string    `json:"session_id"`
	Lines     int       `json:"lines"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedV1 is the typed event definition for bulk clears.
// Subject: events.cart.v1.cart-cleared
var CartClearedV1 = helper.EventDefinition[CartClearedEvent](
	"cart", "CartCleared", "v1",
)

// CheckoutLine is a cart line as handed to checkout.
type CheckoutLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	SizeID    string          `json:"size_id,omitempty"`
	ColorID   string          `json:"color_id,omitempty"`
}

// CheckoutRequestedEvent carries the serialized cart to checkout.
type CheckoutRequestedEvent struct {
	SessionID     string          `json:"session_id"`
	Lines         []CheckoutLine  `json:"lines"`
	TotalItems    int             `json:"total_items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentMethod string          `json:"payment_method"`
	Timestamp     time.Time       `json:"timestamp"`
}

// CheckoutRequestedV1 is the typed event definition for checkout handoffs.
// Subject: events.cart.v1.checkout-requested
var CheckoutRequestedV1 = helper.EventDefinition[CheckoutRequestedEvent](
	"cart", "CheckoutRequested", "v1",
)
