package wishlist

import (
	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
)

// WishlistView is the serialized state of one wishlist.
type WishlistView struct {
	SessionID string            `json:"session_id"`
	Items     []catalog.Product `json:"items"`
	Total     int               `json:"total"`
}

// GetWishlistRequest is the request for the get-wishlist service.
type GetWishlistRequest struct {
	SessionID string `json:"session_id"`
}

// AddItemRequest is the request for the add-item service.
type AddItemRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

// AddItemResponse reports whether the product was added. A product that is
// already present yields Added=false with the DuplicateWishlistEntry reason;
// an unknown product yields ProductUnavailable.
type AddItemResponse struct {
	Added    bool             `json:"added"`
	Reason   inventory.Reason `json:"reason,omitempty"`
	Wishlist WishlistView     `json:"wishlist"`
}

// RemoveItemRequest is the request for the remove-item service.
type RemoveItemRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

// RemoveItemResponse is the response for the remove-item service.
type RemoveItemResponse struct {
	Removed  bool         `json:"removed"`
	Wishlist WishlistView `json:"wishlist"`
}

// RemoveAllRequest is the request for the remove-all service.
type RemoveAllRequest struct {
	SessionID string `json:"session_id"`
}

// RemoveAllResponse is the response for the remove-all service.
type RemoveAllResponse struct {
	Cleared int `json:"cleared"`
}
