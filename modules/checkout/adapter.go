package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CheckoutPort is how the API drives checkout.
type CheckoutPort interface {
	CompleteOrder(ctx context.Context, req *CompleteOrderRequest) (*CompleteOrderResponse, error)
	ListHandoffs(ctx context.Context, sessionID string) (*ListHandoffsResponse, error)
}

type checkoutAdapter struct {
	container mono.ServiceContainer
}

// NewCheckoutAdapter creates a new adapter for checkout services.
func NewCheckoutAdapter(container mono.ServiceContainer) CheckoutPort {
	if container == nil {
		panic("checkout adapter requires non-nil ServiceContainer")
	}
	return &checkoutAdapter{container: container}
}

func (a *checkoutAdapter) CompleteOrder(ctx context.Context, req *CompleteOrderRequest) (*CompleteOrderResponse, error) {
	var resp CompleteOrderResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"complete-order",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("complete-order service call failed: %w", err)
	}
	return &resp, nil
}

func (a *checkoutAdapter) ListHandoffs(ctx context.Context, sessionID string) (*ListHandoffsResponse, error) {
	req := ListHandoffsRequest{SessionID: sessionID}
	var resp ListHandoffsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-handoffs",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-handoffs service call failed: %w", err)
	}
	return &resp, nil
}
