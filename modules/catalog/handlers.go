package catalog

import (
	"context"
	"errors"

	"github.com/go-monolith/mono"

	"github.com/example/storefront-inventory/domain/catalog"
)

// getProduct handles the get-product request-reply service.
func (m *CatalogModule) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (GetProductResponse, error) {
	p, cached, err := m.service.Get(ctx, req.ProductID)
	if errors.Is(err, ErrNotFound) {
		return GetProductResponse{Found: false}, nil
	}
	if err != nil {
		return GetProductResponse{}, err
	}
	return GetProductResponse{Found: true, Cached: cached, Product: p}, nil
}

// listProducts handles the list-products request-reply service.
func (m *CatalogModule) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	products, err := m.service.List(ctx, req.Category, req.IncludeArchived)
	if err != nil {
		return ListProductsResponse{}, err
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return ListProductsResponse{Products: products, Total: len(products)}, nil
}

// createProduct handles the create-product request-reply service.
// Validation failures are reported in the response, not as a transport error.
func (m *CatalogModule) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (CreateProductResponse, error) {
	p, err := m.service.Create(ctx, req.Product)
	if errors.Is(err, catalog.ErrInvalidProduct) {
		return CreateProductResponse{Error: err.Error()}, nil
	}
	if err != nil {
		return CreateProductResponse{}, err
	}
	return CreateProductResponse{Product: p}, nil
}

// availability handles the availability request-reply service.
func (m *CatalogModule) availability(ctx context.Context, req AvailabilityRequest, _ *mono.Msg) (AvailabilityResponse, error) {
	view, err := m.service.Availability(ctx, req.ProductID, req.SizeID, req.ColorID)
	if errors.Is(err, ErrNotFound) {
		return AvailabilityResponse{Found: false}, nil
	}
	if err != nil {
		return AvailabilityResponse{}, err
	}
	return AvailabilityResponse{Found: true, Availability: view}, nil
}

// selection handles the selection request-reply service.
func (m *CatalogModule) selection(ctx context.Context, req SelectionRequest, _ *mono.Msg) (SelectionResponse, error) {
	resp, err := m.service.Selection(ctx, req)
	if errors.Is(err, ErrNotFound) {
		return SelectionResponse{Found: false}, nil
	}
	if err != nil {
		return SelectionResponse{}, err
	}
	return *resp, nil
}
