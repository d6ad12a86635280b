package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-inventory/domain/cart"
	"github.com/example/storefront-inventory/domain/inventory"
)

// Result carries a command outcome across the service boundary so the
// reason code survives serialization.
type Result struct {
	OK        bool                `json:"ok"`
	Reason    inventory.Reason    `json:"reason,omitempty"`
	Remaining int                 `json:"remaining,omitempty"`
	Missing   inventory.Dimension `json:"missing,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// Rejection rebuilds the domain rejection, or nil for a success.
func (r Result) Rejection() *inventory.Rejection {
	if r.OK || r.Reason == "" {
		return nil
	}
	return &inventory.Rejection{Reason: r.Reason, Remaining: r.Remaining, Missing: r.Missing}
}

// resultOf converts a command error into a Result. Errors that are not
// rejections are returned unchanged.
func resultOf(err error) (Result, error) {
	if err == nil {
		return Result{OK: true}, nil
	}
	var rej *inventory.Rejection
	if errors.As(err, &rej) {
		return Result{
			Reason:    rej.Reason,
			Remaining: rej.Remaining,
			Missing:   rej.Missing,
			Message:   rej.Error(),
		}, nil
	}
	return Result{}, err
}

// CartView is the serialized state of one cart.
type CartView struct {
	SessionID  string          `json:"session_id"`
	Items      []cart.Item     `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// GetCartRequest is the request for the get-cart service.
type GetCartRequest struct {
	SessionID string `json:"session_id"`
}

// AddItemRequest is the request for the add-item service.
type AddItemRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// AddItemResponse is the response for the add-item service.
type AddItemResponse struct {
	Result
	NewLine bool     `json:"new_line"`
	Cart    CartView `json:"cart"`
}

// UpdateQuantityRequest is the request for the update-quantity service.
type UpdateQuantityRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CartResponse is a command result plus the cart after the command.
type CartResponse struct {
	Result
	Cart CartView `json:"cart"`
}

// RemoveItemRequest is the request for the remove-item service.
type RemoveItemRequest struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
}

// RemoveItemResponse is the response for the remove-item service.
type RemoveItemResponse struct {
	Removed bool     `json:"removed"`
	Cart    CartView `json:"cart"`
}

// RemoveAllRequest is the request for the remove-all service.
type RemoveAllRequest struct {
	SessionID string `json:"session_id"`
}

// RemoveAllResponse is the response for the remove-all service.
type RemoveAllResponse struct {
	Cleared int `json:"cleared"`
}

// CheckoutRequest is the request for the checkout service.
type CheckoutRequest struct {
	SessionID     string `json:"session_id"`
	PaymentMethod string `json:"payment_method"`
}

// CheckoutResponse is the response for the checkout service.
type CheckoutResponse struct {
	Result
	Payload *cart.CheckoutPayload `json:"payload,omitempty"`
}
