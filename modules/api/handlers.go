package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront-inventory/domain/inventory"
	"github.com/example/storefront-inventory/modules/cart"
	"github.com/example/storefront-inventory/modules/catalog"
	"github.com/example/storefront-inventory/modules/checkout"
	"github.com/example/storefront-inventory/modules/wishlist"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	api := app.Group("/api/v1", sessionMiddleware)

	products := api.Group("/products")
	products.Get("/", m.listProducts)
	products.Post("/", m.createProduct)
	products.Get("/:id", m.getProduct)
	products.Get("/:id/availability", m.productAvailability)
	products.Get("/:id/selection", m.productSelection)

	carts := api.Group("/cart")
	carts.Get("/", m.getCart)
	carts.Delete("/", m.clearCart)
	carts.Post("/items", m.addCartItem)
	carts.Patch("/items", m.updateCartItem)
	carts.Delete("/items", m.removeCartItem)
	carts.Post("/checkout", m.checkoutCart)

	orders := api.Group("/checkout")
	orders.Post("/complete", m.completeOrder)
	orders.Get("/handoffs", m.listHandoffs)

	wishlists := api.Group("/wishlist")
	wishlists.Get("/", m.getWishlist)
	wishlists.Delete("/", m.clearWishlist)
	wishlists.Post("/items", m.addWishlistItem)
	wishlists.Delete("/items/:productId", m.removeWishlistItem)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"addr":   m.addr,
		},
	})
}

// statusFor maps a rejection reason to its HTTP status.
func statusFor(reason inventory.Reason) int {
	switch reason {
	case inventory.ReasonInvalidQuantity:
		return fiber.StatusBadRequest
	case inventory.ReasonLineNotFound:
		return fiber.StatusNotFound
	case inventory.ReasonInsufficientStock, inventory.ReasonProductUnavailable:
		return fiber.StatusConflict
	case inventory.ReasonSelectionIncomplete, inventory.ReasonEmptyCart:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadRequest
	}
}

func rejectCart(c *fiber.Ctx, res cart.Result, productID string) error {
	body := RejectionResponse{
		Error:     string(res.Reason),
		Message:   res.Message,
		ProductID: productID,
		Missing:   string(res.Missing),
	}
	if res.Reason == inventory.ReasonInsufficientStock {
		remaining := res.Remaining
		body.Remaining = &remaining
	}
	return c.Status(statusFor(res.Reason)).JSON(body)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

func serviceFailure(c *fiber.Ctx, code string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}

// listProducts handles GET /api/v1/products.
func (m *APIModule) listProducts(c *fiber.Ctx) error {
	resp, err := m.catalog.ListProducts(c.Context(), &catalog.ListProductsRequest{
		Category:        c.Query("category"),
		IncludeArchived: c.QueryBool("include_archived", false),
	})
	if err != nil {
		return serviceFailure(c, "list_failed", err)
	}
	return c.JSON(resp)
}

// createProduct handles POST /api/v1/products.
func (m *APIModule) createProduct(c *fiber.Ctx) error {
	var req catalog.CreateProductRequest
	if err := c.BodyParser(&req.Product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	resp, err := m.catalog.CreateProduct(c.Context(), &req)
	if err != nil {
		return serviceFailure(c, "create_failed", err)
	}
	if resp.Error != "" {
		return badRequest(c, resp.Error)
	}
	return c.Status(fiber.StatusCreated).JSON(resp.Product)
}

// getProduct handles GET /api/v1/products/:id.
func (m *APIModule) getProduct(c *fiber.Ctx) error {
	p, err := m.catalog.GetProduct(c.Context(), c.Params("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
	}
	if err != nil {
		return serviceFailure(c, "get_failed", err)
	}
	return c.JSON(p)
}

// productAvailability handles GET /api/v1/products/:id/availability.
func (m *APIModule) productAvailability(c *fiber.Ctx) error {
	resp, err := m.catalog.Availability(c.Context(), &catalog.AvailabilityRequest{
		ProductID: c.Params("id"),
		SizeID:    c.Query("size"),
		ColorID:   c.Query("color"),
	})
	if err != nil {
		return serviceFailure(c, "availability_failed", err)
	}
	if !resp.Found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
	}
	return c.JSON(resp.Availability)
}

// productSelection handles GET /api/v1/products/:id/selection.
func (m *APIModule) productSelection(c *fiber.Ctx) error {
	resp, err := m.catalog.Selection(c.Context(), &catalog.SelectionRequest{
		ProductID: c.Params("id"),
		SizeID:    c.Query("size"),
		ColorID:   c.Query("color"),
		Quantity:  c.QueryInt("quantity", 1),
	})
	if err != nil {
		return serviceFailure(c, "selection_failed", err)
	}
	if !resp.Found {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
	}
	return c.JSON(resp)
}

// getCart handles GET /api/v1/cart.
func (m *APIModule) getCart(c *fiber.Ctx) error {
	view, err := m.cart.GetCart(c.Context(), sessionOf(c))
	if err != nil {
		return serviceFailure(c, "cart_failed", err)
	}
	return c.JSON(view)
}

// addCartItem handles POST /api/v1/cart/items.
func (m *APIModule) addCartItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.ProductID == "" {
		return badRequest(c, "Product ID is required")
	}

	resp, err := m.cart.AddItem(c.Context(), &cart.AddItemRequest{
		SessionID: sessionOf(c),
		ProductID: req.ProductID,
		SizeID:    req.SizeID,
		ColorID:   req.ColorID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return serviceFailure(c, "add_failed", err)
	}
	if !resp.OK {
		return rejectCart(c, resp.Result, req.ProductID)
	}

	status := fiber.StatusOK
	if resp.NewLine {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}

// updateCartItem handles PATCH /api/v1/cart/items.
func (m *APIModule) updateCartItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.ProductID == "" {
		return badRequest(c, "Product ID is required")
	}

	resp, err := m.cart.UpdateQuantity(c.Context(), &cart.UpdateQuantityRequest{
		SessionID: sessionOf(c),
		ProductID: req.ProductID,
		SizeID:    req.SizeID,
		ColorID:   req.ColorID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return serviceFailure(c, "update_failed", err)
	}
	if !resp.OK {
		return rejectCart(c, resp.Result, req.ProductID)
	}
	return c.JSON(resp.Cart)
}

// removeCartItem handles DELETE /api/v1/cart/items?product_id=&size_id=&color_id=.
func (m *APIModule) removeCartItem(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return badRequest(c, "Product ID is required")
	}

	resp, err := m.cart.RemoveItem(c.Context(), &cart.RemoveItemRequest{
		SessionID: sessionOf(c),
		ProductID: productID,
		SizeID:    c.Query("size_id"),
		ColorID:   c.Query("color_id"),
	})
	if err != nil {
		return serviceFailure(c, "remove_failed", err)
	}
	return c.JSON(resp)
}

// clearCart handles DELETE /api/v1/cart.
func (m *APIModule) clearCart(c *fiber.Ctx) error {
	cleared, err := m.cart.RemoveAll(c.Context(), sessionOf(c))
	if err != nil {
		return serviceFailure(c, "clear_failed", err)
	}
	return c.JSON(ClearedResponse{Cleared: cleared})
}

// checkoutCart handles POST /api/v1/cart/checkout.
func (m *APIModule) checkoutCart(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.PaymentMethod == "" {
		return badRequest(c, "Payment method is required")
	}

	resp, err := m.cart.Checkout(c.Context(), &cart.CheckoutRequest{
		SessionID:     sessionOf(c),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return serviceFailure(c, "checkout_failed", err)
	}
	if !resp.OK {
		return rejectCart(c, resp.Result, "")
	}
	return c.Status(fiber.StatusAccepted).JSON(resp.Payload)
}

// completeOrder handles POST /api/v1/checkout/complete. The body is optional.
func (m *APIModule) completeOrder(c *fiber.Ctx) error {
	var req CompleteOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body",
			})
		}
	}

	resp, err := m.checkout.CompleteOrder(c.Context(), &checkout.CompleteOrderRequest{
		SessionID: sessionOf(c),
		HandoffID: req.HandoffID,
	})
	if err != nil {
		return serviceFailure(c, "complete_failed", err)
	}
	if !resp.Completed {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "no_pending_checkout",
			Message: resp.Error,
		})
	}
	return c.JSON(resp)
}

// listHandoffs handles GET /api/v1/checkout/handoffs.
func (m *APIModule) listHandoffs(c *fiber.Ctx) error {
	resp, err := m.checkout.ListHandoffs(c.Context(), sessionOf(c))
	if err != nil {
		return serviceFailure(c, "list_failed", err)
	}
	return c.JSON(resp)
}

// getWishlist handles GET /api/v1/wishlist.
func (m *APIModule) getWishlist(c *fiber.Ctx) error {
	view, err := m.wishlist.GetWishlist(c.Context(), sessionOf(c))
	if err != nil {
		return serviceFailure(c, "wishlist_failed", err)
	}
	return c.JSON(view)
}

// addWishlistItem handles POST /api/v1/wishlist/items.
func (m *APIModule) addWishlistItem(c *fiber.Ctx) error {
	var req WishlistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.ProductID == "" {
		return badRequest(c, "Product ID is required")
	}

	resp, err := m.wishlist.AddItem(c.Context(), &wishlist.AddItemRequest{
		SessionID: sessionOf(c),
		ProductID: req.ProductID,
	})
	if err != nil {
		return serviceFailure(c, "add_failed", err)
	}

	switch {
	case resp.Added:
		return c.Status(fiber.StatusCreated).JSON(StatusResponse{Status: "added", Data: resp.Wishlist})
	case resp.Reason == inventory.ReasonDuplicateWishlistEntry:
		return c.JSON(StatusResponse{Status: "already_present", Data: resp.Wishlist})
	default:
		return c.Status(statusFor(resp.Reason)).JSON(RejectionResponse{
			Error:     string(resp.Reason),
			Message:   "Product is not in the catalog",
			ProductID: req.ProductID,
		})
	}
}

// removeWishlistItem handles DELETE /api/v1/wishlist/items/:productId.
func (m *APIModule) removeWishlistItem(c *fiber.Ctx) error {
	resp, err := m.wishlist.RemoveItem(c.Context(), &wishlist.RemoveItemRequest{
		SessionID: sessionOf(c),
		ProductID: c.Params("productId"),
	})
	if err != nil {
		return serviceFailure(c, "remove_failed", err)
	}
	return c.JSON(resp)
}

// clearWishlist handles DELETE /api/v1/wishlist.
func (m *APIModule) clearWishlist(c *fiber.Ctx) error {
	cleared, err := m.wishlist.RemoveAll(c.Context(), sessionOf(c))
	if err != nil {
		return serviceFailure(c, "clear_failed", err)
	}
	return c.JSON(ClearedResponse{Cleared: cleared})
}
