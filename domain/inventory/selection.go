package inventory

import (
	"context"
	"errors"

	"github.com/example/storefront-inventory/domain/catalog"
)

// ResolveSelection checks that sel names every dimension p requires and that
// the chosen variants belong to p and are not flagged out of stock. On
// success it returns the selection re-pointed at p's own variant records and
// the available quantity, which is always > 0.
func ResolveSelection(p *catalog.Product, sel Selection) (Selection, int, error) {
	if len(p.Sizes) > 0 && sel.Size == nil {
		return Selection{}, 0, SelectionIncomplete(p.ID, DimensionSize)
	}
	if len(p.Colors) > 0 && sel.Color == nil {
		return Selection{}, 0, SelectionIncomplete(p.ID, DimensionColor)
	}

	var resolved Selection
	if sel.Size != nil {
		resolved.Size = p.FindSize(sel.Size.ID)
		if resolved.Size == nil || resolved.Size.IsOutOfStock {
			return Selection{}, 0, Reject(ReasonProductUnavailable, p.ID)
		}
	}
	if sel.Color != nil {
		resolved.Color = p.FindColor(sel.Color.ID)
		if resolved.Color == nil || resolved.Color.IsOutOfStock {
			return Selection{}, 0, Reject(ReasonProductUnavailable, p.ID)
		}
	}

	if p.IsCompletelyOutOfStock {
		return Selection{}, 0, Reject(ReasonProductUnavailable, p.ID)
	}
	available := AvailableQuantity(p, resolved)
	if available == 0 {
		return Selection{}, 0, Reject(ReasonProductUnavailable, p.ID)
	}
	return resolved, available, nil
}

// CartAdder is the cart operation the controller hands a validated
// selection to. It reports whether a new line was created.
type CartAdder interface {
	AddItem(ctx context.Context, p *catalog.Product, quantity int, sel Selection) (bool, error)
}

// SelectionState is a read-only snapshot of a Controller.
type SelectionState struct {
	Size              *catalog.Size
	Color             *catalog.Color
	Quantity          int
	AvailableQuantity int
	Err               *Rejection
}

// Controller holds the per-product selection of a detail view: chosen size,
// chosen color and desired quantity. It is not persisted and not safe for
// concurrent use.
type Controller struct {
	product  *catalog.Product
	size     *catalog.Size
	color    *catalog.Color
	quantity int
	err      *Rejection
}

// NewController starts an empty selection with quantity 1.
func NewController(p *catalog.Product) *Controller {
	return &Controller{product: p, quantity: 1}
}

// SelectSize toggles the size with the given id. Selecting the current size
// deselects it; selecting an unknown or disabled size is a no-op. It
// reports whether the selection changed.
func (c *Controller) SelectSize(id string) bool {
	if c.size != nil && c.size.ID == id {
		c.size = nil
		c.reset()
		return true
	}
	size := c.product.FindSize(id)
	if size == nil || !IsSizeAvailable(c.product, *size, c.color) {
		return false
	}
	c.size = size
	c.reset()
	return true
}

// SelectColor toggles the color with the given id, as SelectSize does.
func (c *Controller) SelectColor(id string) bool {
	if c.color != nil && c.color.ID == id {
		c.color = nil
		c.reset()
		return true
	}
	color := c.product.FindColor(id)
	if color == nil || !IsColorAvailable(c.product, *color, c.size) {
		return false
	}
	c.color = color
	c.reset()
	return true
}

// Increment raises the quantity by one unless that would exceed the
// current availability.
func (c *Controller) Increment() error {
	return c.SetQuantity(c.quantity + 1)
}

// Decrement lowers the quantity by one, never below 1.
func (c *Controller) Decrement() {
	if c.quantity > 1 {
		c.quantity--
	}
	c.err = nil
}

// SetQuantity sets the desired quantity if it is at least 1 and within the
// current availability. A rejected change leaves the quantity untouched.
func (c *Controller) SetQuantity(n int) error {
	if n < 1 {
		return c.fail(Reject(ReasonInvalidQuantity, c.product.ID))
	}
	if available := c.Available(); n > available {
		return c.fail(InsufficientStock(c.product.ID, available))
	}
	c.quantity = n
	c.err = nil
	return nil
}

// Available returns the resolver's quantity for the current selection.
func (c *Controller) Available() int {
	return AvailableQuantity(c.product, c.selection())
}

// Validate reports why the current selection cannot be added to a cart.
func (c *Controller) Validate() error {
	_, available, err := ResolveSelection(c.product, c.selection())
	if err != nil {
		return err
	}
	if c.quantity > available {
		return InsufficientStock(c.product.ID, available)
	}
	return nil
}

// AddToCart validates the selection and hands it to cart. A rejection,
// local or from the cart, is kept as the controller's current error.
func (c *Controller) AddToCart(ctx context.Context, cart CartAdder) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, c.fail(err)
	}
	created, err := cart.AddItem(ctx, c.product, c.quantity, c.selection())
	if err != nil {
		return false, c.fail(err)
	}
	c.err = nil
	return created, nil
}

// State returns a snapshot of the controller.
func (c *Controller) State() SelectionState {
	return SelectionState{
		Size:              c.size,
		Color:             c.color,
		Quantity:          c.quantity,
		AvailableQuantity: c.Available(),
		Err:               c.err,
	}
}

func (c *Controller) selection() Selection {
	return Selection{Size: c.size, Color: c.color}
}

func (c *Controller) reset() {
	c.quantity = 1
	c.err = nil
}

func (c *Controller) fail(err error) error {
	var rej *Rejection
	if errors.As(err, &rej) {
		c.err = rej
	}
	return err
}
