package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CartPort is how other modules drive carts.
type CartPort interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, req *AddItemRequest) (*AddItemResponse, error)
	UpdateQuantity(ctx context.Context, req *UpdateQuantityRequest) (*CartResponse, error)
	RemoveItem(ctx context.Context, req *RemoveItemRequest) (*RemoveItemResponse, error)
	RemoveAll(ctx context.Context, sessionID string) (int, error)
	Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error)
}

// cartAdapter implements CartPort over the cart module's services.
type cartAdapter struct {
	container mono.ServiceContainer
}

// NewCartAdapter creates a new adapter for cart services.
func NewCartAdapter(container mono.ServiceContainer) CartPort {
	if container == nil {
		panic("cart adapter requires non-nil ServiceContainer")
	}
	return &cartAdapter{container: container}
}

// GetCart returns the session's cart.
func (a *cartAdapter) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	req := GetCartRequest{SessionID: sessionID}
	var resp CartView
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-cart",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-cart service call failed: %w", err)
	}
	return &resp, nil
}

// AddItem adds units to the cart.
func (a *cartAdapter) AddItem(ctx context.Context, req *AddItemRequest) (*AddItemResponse, error) {
	var resp AddItemResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"add-item",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("add-item service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateQuantity sets a line's quantity.
func (a *cartAdapter) UpdateQuantity(ctx context.Context, req *UpdateQuantityRequest) (*CartResponse, error) {
	var resp CartResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-quantity",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("update-quantity service call failed: %w", err)
	}
	return &resp, nil
}

// RemoveItem removes a line.
func (a *cartAdapter) RemoveItem(ctx context.Context, req *RemoveItemRequest) (*RemoveItemResponse, error) {
	var resp RemoveItemResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"remove-item",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("remove-item service call failed: %w", err)
	}
	return &resp, nil
}

// RemoveAll clears the cart and returns how many lines were dropped.
func (a *cartAdapter) RemoveAll(ctx context.Context, sessionID string) (int, error) {
	req := RemoveAllRequest{SessionID: sessionID}
	var resp RemoveAllResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"remove-all",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return 0, fmt.Errorf("remove-all service call failed: %w", err)
	}
	return resp.Cleared, nil
}

// Checkout builds the checkout handoff.
func (a *cartAdapter) Checkout(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"checkout",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("checkout service call failed: %w", err)
	}
	return &resp, nil
}
