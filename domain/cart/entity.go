// Package cart implements the persisted shopping cart whose mutations are
// gated by the inventory resolver.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
)

// Item is one cart line: the product as it was when added, the chosen
// variants and the quantity.
type Item struct {
	Product       catalog.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedSize  *catalog.Size   `json:"selected_size,omitempty"`
	SelectedColor *catalog.Color  `json:"selected_color,omitempty"`
}

// LineKey identifies a line. Empty ids mean the dimension is not selected.
type LineKey struct {
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	ColorID   string `json:"color_id,omitempty"`
}

// KeyOf builds the line key for a product and selection.
func KeyOf(productID string, sel inventory.Selection) LineKey {
	return LineKey{ProductID: productID, SizeID: sel.SizeID(), ColorID: sel.ColorID()}
}

// Key returns the line's identity.
func (i Item) Key() LineKey {
	return KeyOf(i.Product.ID, i.Selection())
}

// Selection returns the line's variant choice.
func (i Item) Selection() inventory.Selection {
	return inventory.Selection{Size: i.SelectedSize, Color: i.SelectedColor}
}

// LineTotal is the snapshotted price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i Item) clone() Item {
	return newItem(&i.Product, i.Quantity, i.Selection())
}

func newItem(p *catalog.Product, quantity int, sel inventory.Selection) Item {
	item := Item{Product: p.Clone(), Quantity: quantity}
	if sel.Size != nil {
		size := *sel.Size
		item.SelectedSize = &size
	}
	if sel.Color != nil {
		color := *sel.Color
		item.SelectedColor = &color
	}
	return item
}
