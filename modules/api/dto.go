package api

// CartItemRequest is the HTTP body for adding or updating a cart line.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is the HTTP body for starting checkout.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// CompleteOrderRequest is the HTTP body for completing an order.
type CompleteOrderRequest struct {
	HandoffID string `json:"handoff_id,omitempty"`
}

// WishlistItemRequest is the HTTP body for adding to the wishlist.
type WishlistItemRequest struct {
	ProductID string `json:"product_id"`
}

// ClearedResponse reports how many entries a bulk clear dropped.
type ClearedResponse struct {
	Cleared int `json:"cleared"`
}

// StatusResponse is a bare status acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RejectionResponse is the HTTP response for a rejected cart or wishlist
// command. Error carries the reason code.
type RejectionResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
	Missing   string `json:"missing,omitempty"`
}
