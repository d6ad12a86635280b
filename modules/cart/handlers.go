package cart

import (
	"context"

	"github.com/go-monolith/mono"
)

func (m *CartModule) getCart(ctx context.Context, req GetCartRequest, _ *mono.Msg) (CartView, error) {
	return m.service.Get(ctx, req.SessionID)
}

func (m *CartModule) addItem(ctx context.Context, req AddItemRequest, _ *mono.Msg) (AddItemResponse, error) {
	return m.service.AddItem(ctx, req)
}

func (m *CartModule) updateQuantity(ctx context.Context, req UpdateQuantityRequest, _ *mono.Msg) (CartResponse, error) {
	return m.service.UpdateQuantity(ctx, req)
}

func (m *CartModule) removeItem(ctx context.Context, req RemoveItemRequest, _ *mono.Msg) (RemoveItemResponse, error) {
	return m.service.RemoveItem(ctx, req)
}

func (m *CartModule) removeAll(ctx context.Context, req RemoveAllRequest, _ *mono.Msg) (RemoveAllResponse, error) {
	cleared, err := m.service.RemoveAll(ctx, req.SessionID)
	if err != nil {
		return RemoveAllResponse{}, err
	}
	return RemoveAllResponse{Cleared: cleared}, nil
}

func (m *CartModule) checkout(ctx context.Context, req CheckoutRequest, _ *mono.Msg) (CheckoutResponse, error) {
	return m.service.Checkout(ctx, req)
}
