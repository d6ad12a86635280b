package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// WishlistItemEvent is emitted when wishlist membership changes.
type WishlistItemEvent struct {
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WishlistItemAddedV1 is the typed event definition for wishlist additions.
// Subject: events.wishlist.v1.item-added
var WishlistItemAddedV1 = helper.EventDefinition[WishlistItemEvent](
	"wishlist", "ItemAdded", "v1",
)

// WishlistItemRemovedV1 is the typed event definition for wishlist removals.
// Subject: events.wishlist.v1.item-removed
var WishlistItemRemovedV1 = helper.EventDefinition[WishlistItemEvent](
	"wishlist", "ItemRemoved", "v1",
)
