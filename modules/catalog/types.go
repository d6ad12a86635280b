package catalog

import (
	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
)

// GetProductRequest is the request for the get-product service.
type GetProductRequest struct {
	ProductID string `json:"product_id"`
}

// GetProductResponse is the response for the get-product service.
type GetProductResponse struct {
	Found   bool             `json:"found"`
	Cached  bool             `json:"cached"`
	Product *catalog.Product `json:"product,omitempty"`
}

// ListProductsRequest is the request for the list-products service.
type ListProductsRequest struct {
	Category        string `json:"category,omitempty"`
	IncludeArchived bool   `json:"include_archived,omitempty"`
}

// ListProductsResponse is the response for the list-products service.
type ListProductsResponse struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
}

// CreateProductRequest is the request for the create-product service.
// Variant ids in the request are local references; stored ids are
// generated and the matrix is rewritten to match.
type CreateProductRequest struct {
	Product catalog.Product `json:"product"`
}

// CreateProductResponse is the response for the create-product service.
type CreateProductResponse struct {
	Product *catalog.Product `json:"product,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// AvailabilityRequest is the request for the availability service.
type AvailabilityRequest struct {
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
}

// AvailabilityResponse is the response for the availability service.
type AvailabilityResponse struct {
	Found        bool                          `json:"found"`
	Availability inventory.ProductAvailability `json:"availability"`
}

// SelectionRequest replays a shopper's picks through a selection
// controller: size, then color, then quantity.
type SelectionRequest struct {
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// SelectionResponse is the controller state after the replay.
type SelectionResponse struct {
	Found             bool                          `json:"found"`
	SizeID            string                        `json:"size_id,omitempty"`
	ColorID           string                        `json:"color_id,omitempty"`
	Quantity          int                           `json:"quantity"`
	AvailableQuantity int                           `json:"available_quantity"`
	CanAddToCart      bool                          `json:"can_add_to_cart"`
	Reason            inventory.Reason              `json:"reason,omitempty"`
	Remaining         int                           `json:"remaining,omitempty"`
	Missing           inventory.Dimension           `json:"missing,omitempty"`
	Availability      inventory.ProductAvailability `json:"availability"`
}
