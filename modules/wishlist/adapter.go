package wishlist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// WishlistPort is how other modules drive wishlists.
type WishlistPort interface {
	GetWishlist(ctx context.Context, sessionID string) (*WishlistView, error)
	AddItem(ctx context.Context, req *AddItemRequest) (*AddItemResponse, error)
	RemoveItem(ctx context.Context, req *RemoveItemRequest) (*RemoveItemResponse, error)
	RemoveAll(ctx context.Context, sessionID string) (int, error)
}

type wishlistAdapter struct {
	container mono.ServiceContainer
}

// NewWishlistAdapter creates a new adapter for wishlist services.
func NewWishlistAdapter(container mono.ServiceContainer) WishlistPort {
	if container == nil {
		panic("wishlist adapter requires non-nil ServiceContainer")
	}
	return &wishlistAdapter{container: container}
}

func (a *wishlistAdapter) GetWishlist(ctx context.Context, sessionID string) (*WishlistView, error) {
	req := GetWishlistRequest{SessionID: sessionID}
	var resp WishlistView
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-wishlist",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-wishlist service call failed: %w", err)
	}
	return &resp, nil
}

func (a *wishlistAdapter) AddItem(ctx context.Context, req *AddItemRequest) (*AddItemResponse, error) {
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

func (a *wishlistAdapter) RemoveItem(ctx context.Context, req *RemoveItemRequest) (*RemoveItemResponse, error) {
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

func (a *wishlistAdapter) RemoveAll(ctx context.Context, sessionID string) (int, error) {
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
