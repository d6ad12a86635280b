// Package catalog defines the product data consumed by the inventory engine.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidProduct is returned when a product fails validation.
var ErrInvalidProduct = errors.New("invalid product")

// Product is a catalog entry with its variant lists and stock matrix.
// ColorSizeQuantities is the source of truth for stock whenever Sizes or
// Colors is non-empty; Quantity is only read when both are empty.
type Product struct {
	ID                     string              `gorm:"primarykey;size:36" json:"id"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
	StoreID                string              `gorm:"size:36;index" json:"store_id,omitempty"`
	Name                   string              `gorm:"size:200;not null" json:"name"`
	Description            string              `gorm:"size:2000" json:"description,omitempty"`
	Category               string              `gorm:"size:100;index" json:"category,omitempty"`
	Price                  decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice          *decimal.Decimal    `gorm:"type:decimal(10,2)" json:"original_price,omitempty"`
	Quantity               *int                `json:"quantity,omitempty"`
	IsFeatured             bool                `gorm:"not null;default:false" json:"is_featured"`
	IsArchived             bool                `gorm:"not null;default:false" json:"is_archived"`
	IsOnSale               bool                `gorm:"not null;default:false" json:"is_on_sale"`
	IsCompletelyOutOfStock bool                `gorm:"not null;default:false" json:"is_completely_out_of_stock"`
	Sizes                  []Size              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
	Colors                 []Color             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"colors"`
	ColorSizeQuantities    []ColorSizeQuantity `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"color_size_quantities"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// Size is a size variant. IsOutOfStock is a manual override set by the
// catalog owner; it can only disable the option.
type Size struct {
	ID           string `gorm:"primarykey;size:36" json:"id"`
	ProductID    string `gorm:"size:36;index;not null" json:"product_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Value        string `gorm:"size:50" json:"value"`
	IsOutOfStock bool   `gorm:"not null;default:false" json:"is_out_of_stock"`
}

// TableName returns the table name for Size model.
func (Size) TableName() string {
	return "product_sizes"
}

// Color is a color variant. IsOutOfStock behaves as on Size.
type Color struct {
	ID           string `gorm:"primarykey;size:36" json:"id"`
	ProductID    string `gorm:"size:36;index;not null" json:"product_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Value        string `gorm:"size:50" json:"value"`
	IsOutOfStock bool   `gorm:"not null;default:false" json:"is_out_of_stock"`
}

// TableName returns the table name for Color model.
func (Color) TableName() string {
	return "product_colors"
}

// ColorSizeQuantity is one sparse cell of the stock matrix. A nil key means
// the dimension is not part of the cell; both nil is the base row.
type ColorSizeQuantity struct {
	ID        string  `gorm:"primarykey;size:36" json:"id"`
	ProductID string  `gorm:"size:36;index;not null" json:"product_id"`
	ColorID   *string `gorm:"size:36" json:"color_id"`
	SizeID    *string `gorm:"size:36" json:"size_id"`
	Quantity  int     `gorm:"not null;default:0" json:"quantity"`
}

// TableName returns the table name for ColorSizeQuantity model.
func (ColorSizeQuantity) TableName() string {
	return "product_color_size_quantities"
}

// NewCell builds a matrix cell. An empty id leaves that key unset.
func NewCell(colorID, sizeID string, quantity int) ColorSizeQuantity {
	cell := ColorSizeQuantity{Quantity: quantity}
	if colorID != "" {
		cell.ColorID = &colorID
	}
	if sizeID != "" {
		cell.SizeID = &sizeID
	}
	return cell
}

// Stock returns a pointer to n for the optional scalar Quantity field.
func Stock(n int) *int {
	return &n
}

// FindSize returns the size with the given id, or nil.
func (p *Product) FindSize(id string) *Size {
	for i := range p.Sizes {
		if p.Sizes[i].ID == id {
			return &p.Sizes[i]
		}
	}
	return nil
}

// FindColor returns the color with the given id, or nil.
func (p *Product) FindColor(id string) *Color {
	for i := range p.Colors {
		if p.Colors[i].ID == id {
			return &p.Colors[i]
		}
	}
	return nil
}

// Clone returns a deep copy so a snapshot never aliases the caller's slices.
func (p Product) Clone() Product {
	out := p
	if p.Quantity != nil {
		out.Quantity = Stock(*p.Quantity)
	}
	if p.OriginalPrice != nil {
		price := *p.OriginalPrice
		out.OriginalPrice = &price
	}
	if p.Sizes != nil {
		out.Sizes = append([]Size(nil), p.Sizes...)
	}
	if p.Colors != nil {
		out.Colors = append([]Color(nil), p.Colors...)
	}
	if p.ColorSizeQuantities != nil {
		out.ColorSizeQuantities = make([]ColorSizeQuantity, len(p.ColorSizeQuantities))
		for i, cell := range p.ColorSizeQuantities {
			out.ColorSizeQuantities[i] = cell
			if cell.ColorID != nil {
				id := *cell.ColorID
				out.ColorSizeQuantities[i].ColorID = &id
			}
			if cell.SizeID != nil {
				id := *cell.SizeID
				out.ColorSizeQuantities[i].SizeID = &id
			}
		}
	}
	return out
}

// Validate checks the catalog-side data contract before a product is stored.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidProduct)
	}
	for _, cell := range p.ColorSizeQuantities {
		if cell.Quantity < 0 {
			return fmt.Errorf("%w: matrix quantity must not be negative", ErrInvalidProduct)
		}
		if cell.ColorID != nil && p.FindColor(*cell.ColorID) == nil {
			return fmt.Errorf("%w: matrix references unknown color %q", ErrInvalidProduct, *cell.ColorID)
		}
		if cell.SizeID != nil && p.FindSize(*cell.SizeID) == nil {
			return fmt.Errorf("%w: matrix references unknown size %q", ErrInvalidProduct, *cell.SizeID)
		}
	}
	return nil
}
