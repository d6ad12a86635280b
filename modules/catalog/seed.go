package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-inventory/domain/catalog"
)

// demoProducts covers one product per variant shape.
func demoProducts() []catalog.Product {
	salePrice := decimal.RequireFromString("24.00")
	return []catalog.Product{
		{
			Name:       "Canvas Tote",
			Category:   "bags",
			Price:      decimal.RequireFromString("18.00"),
			Quantity:   catalog.Stock(5),
			IsFeatured: true,
		},
		{
			Name:     "Enamel Mug",
			Category: "home",
			Price:    decimal.RequireFromString("12.50"),
			Colors: []catalog.Color{
				{ID: "red", Name: "Red", Value: "#c0392b"},
				{ID: "blue", Name: "Blue", Value: "#2e86de"},
			},
			ColorSizeQuantities: []catalog.ColorSizeQuantity{
				catalog.NewCell("red", "", 2),
				catalog.NewCell("blue", "", 0),
			},
		},
		{
			Name:          "Wool Beanie",
			Category:      "accessories",
			Price:         decimal.RequireFromString("19.00"),
			OriginalPrice: &salePrice,
			IsOnSale:      true,
			Sizes: []catalog.Size{
				{ID: "s", Name: "Small", Value: "S"},
				{ID: "l", Name: "Large", Value: "L"},
			},
			ColorSizeQuantities: []catalog.ColorSizeQuantity{
				catalog.NewCell("", "s", 4),
				catalog.NewCell("", "l", 1),
			},
		},
		{
			Name:       "Fleece Hoodie",
			Category:   "apparel",
			Price:      decimal.RequireFromString("49.99"),
			IsFeatured: true,
			Sizes: []catalog.Size{
				{ID: "s", Name: "Small", Value: "S"},
				{ID: "m", Name: "Medium", Value: "M"},
			},
			Colors: []catalog.Color{
				{ID: "red", Name: "Red", Value: "#c0392b"},
				{ID: "blue", Name: "Blue", Value: "#2e86de"},
			},
			ColorSizeQuantities: []catalog.ColorSizeQuantity{
				catalog.NewCell("red", "s", 1),
				catalog.NewCell("blue", "s", 0),
				catalog.NewCell("red", "m", 0),
				catalog.NewCell("blue", "m", 0),
			},
		},
	}
}

// Seed inserts the demo products when the catalog is empty and returns how
// many were created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, p := range demoProducts() {
		if _, err := s.Create(ctx, p); err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", p.Name, err)
		}
		created++
	}
	return created, nil
}
