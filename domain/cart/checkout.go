package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-inventory/domain/inventory"
)

// CheckoutLine is one line as handed to the external checkout collaborator.
type CheckoutLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	SizeID    string          `json:"size_id,omitempty"`
	ColorID   string          `json:"color_id,omitempty"`
}

// CheckoutPayload is the serialized cart handed off at checkout.
type CheckoutPayload struct {
	Lines         []CheckoutLine  `json:"lines"`
	TotalItems    int             `json:"total_items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentMethod string          `json:"payment_method"`
}

// Checkout builds the handoff payload with lines sorted by product name.
// The cart itself is not modified; it is cleared once the order completes.
func (s *Store) Checkout(paymentMethod string) (CheckoutPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return CheckoutPayload{}, inventory.Reject(inventory.ReasonEmptyCart, "")
	}

	sorted := make([]Item, len(s.items))
	copy(sorted, s.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Product.Name < sorted[j].Product.Name
	})

	lines := make([]CheckoutLine, 0, len(sorted))
	for _, item := range sorted {
		key := item.Key()
		lines = append(lines, CheckoutLine{
			ProductID: key.ProductID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
			SizeID:    key.SizeID,
			ColorID:   key.ColorID,
		})
	}

	return CheckoutPayload{
		Lines:         lines,
		TotalItems:    len(lines),
		TotalPrice:    totalOf(s.items),
		PaymentMethod: paymentMethod,
	}, nil
}
