package inventory

import "github.com/example/storefront-inventory/domain/catalog"

// OptionAvailability is the derived out-of-stock view of one swatch.
type OptionAvailability struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Value        string `json:"value"`
	Quantity     int    `json:"quantity"`
	IsOutOfStock bool   `json:"is_out_of_stock"`
}

// ProductAvailability is everything a product view needs to render
// swatches and clamp quantity for one selection.
type ProductAvailability struct {
	ProductID              string               `json:"product_id"`
	Shape                  Shape                `json:"shape"`
	SizeID                 string               `json:"size_id,omitempty"`
	ColorID                string               `json:"color_id,omitempty"`
	AvailableQuantity      int                  `json:"available_quantity"`
	IsSellable             bool                 `json:"is_sellable"`
	IsCompletelyOutOfStock bool                 `json:"is_completely_out_of_stock"`
	Sizes                  []OptionAvailability `json:"sizes"`
	Colors                 []OptionAvailability `json:"colors"`
}

// View computes the availability view of p for sel. Each size is evaluated
// with the selected color held fixed and vice versa.
func View(p *catalog.Product, sel Selection) ProductAvailability {
	view := ProductAvailability{
		ProductID:              p.ID,
		Shape:                  ShapeOf(p),
		SizeID:                 sel.SizeID(),
		ColorID:                sel.ColorID(),
		AvailableQuantity:      AvailableQuantity(p, sel),
		IsSellable:             IsProductSellable(p),
		IsCompletelyOutOfStock: IsCompletelyOutOfStock(p),
		Sizes:                  make([]OptionAvailability, 0, len(p.Sizes)),
		Colors:                 make([]OptionAvailability, 0, len(p.Colors)),
	}

	for _, size := range p.Sizes {
		view.Sizes = append(view.Sizes, OptionAvailability{
			ID:           size.ID,
			Name:         size.Name,
			Value:        size.Value,
			Quantity:     AvailableQuantity(p, Selection{Size: &size, Color: sel.Color}),
			IsOutOfStock: !IsSizeAvailable(p, size, sel.Color),
		})
	}
	for _, color := range p.Colors {
		view.Colors = append(view.Colors, OptionAvailability{
			ID:           color.ID,
			Name:         color.Name,
			Value:        color.Value,
			Quantity:     AvailableQuantity(p, Selection{Size: sel.Size, Color: &color}),
			IsOutOfStock: !IsColorAvailable(p, color, sel.Size),
		})
	}
	return view
}
