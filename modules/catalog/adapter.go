package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/storefront-inventory/domain/catalog"
)

// CatalogPort is how other modules read the catalog.
type CatalogPort interface {
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error)
	Availability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error)
	Selection(ctx context.Context, req *SelectionRequest) (*SelectionResponse, error)
}

// catalogAdapter implements CatalogPort over the catalog module's services.
type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates a new adapter for catalog services.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	if container == nil {
		panic("catalog adapter requires non-nil ServiceContainer")
	}
	return &catalogAdapter{container: container}
}

// GetProduct returns the product or ErrNotFound.
func (a *catalogAdapter) GetProduct(ctx context.Context, productID string) (*catalog.Product, error) {
	req := GetProductRequest{ProductID: productID}
	var resp GetProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-product",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-product service call failed: %w", err)
	}
	if !resp.Found || resp.Product == nil {
		return nil, ErrNotFound
	}
	return resp.Product, nil
}

// ListProducts lists products via the list-products service.
func (a *catalogAdapter) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	var resp ListProductsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-products",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-products service call failed: %w", err)
	}
	return &resp, nil
}

// CreateProduct creates a product via the create-product service.
func (a *catalogAdapter) CreateProduct(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	var resp CreateProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-product",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-product service call failed: %w", err)
	}
	return &resp, nil
}

// Availability queries the availability service.
func (a *catalogAdapter) Availability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityResponse, error) {
	var resp AvailabilityResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"availability",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("availability service call failed: %w", err)
	}
	return &resp, nil
}

// Selection queries the selection service.
func (a *catalogAdapter) Selection(ctx context.Context, req *SelectionRequest) (*SelectionResponse, error) {
	var resp SelectionResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"selection",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("selection service call failed: %w", err)
	}
	return &resp, nil
}
