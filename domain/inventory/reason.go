package inventory

import (
	"errors"
	"fmt"
)

// Reason is a machine-checkable rejection code. Presentation layers
// localize it; the engine never emits display text.
type Reason string

const (
	ReasonSelectionIncomplete    Reason = "SelectionIncomplete"
	ReasonInsufficientStock      Reason = "InsufficientStock"
	ReasonProductUnavailable     Reason = "ProductUnavailable"
	ReasonLineNotFound           Reason = "LineNotFound"
	ReasonDuplicateWishlistEntry Reason = "DuplicateWishlistEntry"
	ReasonInvalidQuantity        Reason = "InvalidQuantity"
	ReasonEmptyCart              Reason = "EmptyCart"
)

// Dimension names a variant axis.
type Dimension string

const (
	DimensionSize  Dimension = "size"
	DimensionColor Dimension = "color"
)

// Rejection is returned when a command is refused. State is never changed
// when a Rejection is returned.
type Rejection struct {
	Reason    Reason
	ProductID string
	// Remaining is set for InsufficientStock.
	Remaining int
	// Missing is set for SelectionIncomplete.
	Missing Dimension
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonInsufficientStock:
		return fmt.Sprintf("%s: product %s, %d remaining", r.Reason, r.ProductID, r.Remaining)
	case ReasonSelectionIncomplete:
		return fmt.Sprintf("%s: product %s, %s not selected", r.Reason, r.ProductID, r.Missing)
	default:
		if r.ProductID == "" {
			return string(r.Reason)
		}
		return fmt.Sprintf("%s: product %s", r.Reason, r.ProductID)
	}
}

// Reject builds a Rejection without extra detail.
func Reject(reason Reason, productID string) *Rejection {
	return &Rejection{Reason: reason, ProductID: productID}
}

// InsufficientStock builds an InsufficientStock rejection. Negative
// remainders are reported as 0.
func InsufficientStock(productID string, remaining int) *Rejection {
	return &Rejection{Reason: ReasonInsufficientStock, ProductID: productID, Remaining: clamp(remaining)}
}

// SelectionIncomplete builds a SelectionIncomplete rejection.
func SelectionIncomplete(productID string, missing Dimension) *Rejection {
	return &Rejection{Reason: ReasonSelectionIncomplete, ProductID: productID, Missing: missing}
}

// ReasonOf extracts the reason code from err, if it carries one.
func ReasonOf(err error) (Reason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}
