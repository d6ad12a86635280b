// Package inventory resolves purchasable quantities from a product's sparse
// variant matrix. Every function here is pure: it reads the product and the
// selection and never mutates either.
package inventory

import (
	"github.com/example/storefront-inventory/domain/catalog"
)

// Shape classifies a product's variant structure.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeColorOnly
	ShapeSizeOnly
	ShapeBoth
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeColorOnly:
		return "COLOR_ONLY"
	case ShapeSizeOnly:
		return "SIZE_ONLY"
	case ShapeBoth:
		return "BOTH"
	default:
		return "NONE"
	}
}

// MarshalText encodes the shape by name.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Selection is an optional size and color choice. Nil means not chosen.
type Selection struct {
	Size  *catalog.Size
	Color *catalog.Color
}

// SizeID returns the selected size id or "".
func (s Selection) SizeID() string {
	if s.Size == nil {
		return ""
	}
	return s.Size.ID
}

// ColorID returns the selected color id or "".
func (s Selection) ColorID() string {
	if s.Color == nil {
		return ""
	}
	return s.Color.ID
}

// ShapeOf classifies a product by the non-emptiness of its variant lists.
func ShapeOf(p *catalog.Product) Shape {
	hasSizes := len(p.Sizes) > 0
	hasColors := len(p.Colors) > 0
	switch {
	case hasSizes && hasColors:
		return ShapeBoth
	case hasColors:
		return ShapeColorOnly
	case hasSizes:
		return ShapeSizeOnly
	default:
		return ShapeNone
	}
}

// AvailableQuantity returns the purchasable quantity for the selection.
// With a partial selection it returns the aggregate over the cells of the
// product's shape that match whichever dimension is chosen. For COLOR_ONLY
// and SIZE_ONLY the aggregate counts every row with the other key unset,
// the base row included. A missing cell counts as 0 and negative
// quantities are clamped to 0.
func AvailableQuantity(p *catalog.Product, sel Selection) int {
	sizeID, colorID := sel.SizeID(), sel.ColorID()

	switch ShapeOf(p) {
	case ShapeColorOnly:
		if colorID != "" {
			return cell(p, colorID, "")
		}
		return aggregate(p, func(c catalog.ColorSizeQuantity) bool {
			return c.SizeID == nil
		})

	case ShapeSizeOnly:
		if sizeID != "" {
			return cell(p, "", sizeID)
		}
		return aggregate(p, func(c catalog.ColorSizeQuantity) bool {
			return c.ColorID == nil
		})

	case ShapeBoth:
		if colorID != "" && sizeID != "" {
			return cell(p, colorID, sizeID)
		}
		return aggregate(p, func(c catalog.ColorSizeQuantity) bool {
			if c.ColorID == nil || c.SizeID == nil {
				return false
			}
			if colorID != "" && *c.ColorID != colorID {
				return false
			}
			if sizeID != "" && *c.SizeID != sizeID {
				return false
			}
			return true
		})

	default:
		for _, c := range p.ColorSizeQuantities {
			if c.ColorID == nil && c.SizeID == nil {
				return clamp(c.Quantity)
			}
		}
		if p.Quantity == nil {
			return 0
		}
		return clamp(*p.Quantity)
	}
}

// IsSizeAvailable reports whether a size swatch should be enabled while
// color is held fixed (nil leaves color unconstrained).
func IsSizeAvailable(p *catalog.Product, size catalog.Size, color *catalog.Color) bool {
	if size.IsOutOfStock {
		return false
	}
	return AvailableQuantity(p, Selection{Size: &size, Color: color}) > 0
}

// IsColorAvailable reports whether a color swatch should be enabled while
// size is held fixed (nil leaves size unconstrained).
func IsColorAvailable(p *catalog.Product, color catalog.Color, size *catalog.Size) bool {
	if color.IsOutOfStock {
		return false
	}
	return AvailableQuantity(p, Selection{Size: size, Color: &color}) > 0
}

// IsProductSellable reports whether anything at all can be bought. For the
// BOTH shape only cells with both keys set count as purchasable.
func IsProductSellable(p *catalog.Product) bool {
	if AvailableQuantity(p, Selection{}) <= 0 {
		return false
	}
	if ShapeOf(p) != ShapeBoth {
		return true
	}
	for _, c := range p.ColorSizeQuantities {
		if c.ColorID != nil && c.SizeID != nil && c.Quantity > 0 {
			return true
		}
	}
	return false
}

// IsCompletelyOutOfStock combines the catalog owner's override with the
// matrix-derived sellability.
func IsCompletelyOutOfStock(p *catalog.Product) bool {
	return p.IsCompletelyOutOfStock || !IsProductSellable(p)
}

// cell returns the first matrix cell with exactly the given keys.
func cell(p *catalog.Product, colorID, sizeID string) int {
	for _, c := range p.ColorSizeQuantities {
		if keyEquals(c.ColorID, colorID) && keyEquals(c.SizeID, sizeID) {
			return clamp(c.Quantity)
		}
	}
	return 0
}

func aggregate(p *catalog.Product, match func(catalog.ColorSizeQuantity) bool) int {
	total := 0
	for _, c := range p.ColorSizeQuantities {
		if match(c) {
			total += clamp(c.Quantity)
		}
	}
	return total
}

func keyEquals(key *string, id string) bool {
	if id == "" {
		return key == nil
	}
	return key != nil && *key == id
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
