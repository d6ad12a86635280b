package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
	"github.com/example/storefront-inventory/events"
	"github.com/example/storefront-inventory/modules/cart"
	"github.com/example/storefront-inventory/modules/catalog"
	"github.com/example/storefront-inventory/modules/checkout"
	"github.com/example/storefront-inventory/modules/snapshot"
	"github.com/example/storefront-inventory/modules/wishlist"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)          {}
func (m *mockLogger) Info(msg string, args ...any)           {}
func (m *mockLogger) Warn(msg string, args ...any)           {}
func (m *mockLogger) Error(msg string, args ...any)          {}
func (m *mockLogger) With(args ...any) types.Logger          { return m }
func (m *mockLogger) WithError(err error) types.Logger       { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

// fakeCatalog implements catalog.CatalogPort over a fixed product set.
type fakeCatalog struct {
	products map[string]domain.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	clone := p.Clone()
	return &clone, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, _ *catalog.ListProductsRequest) (*catalog.ListProductsResponse, error) {
	products := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return &catalog.ListProductsResponse{Products: products, Total: len(products)}, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, req *catalog.CreateProductRequest) (*catalog.CreateProductResponse, error) {
	if req.Product.Name == "" {
		return &catalog.CreateProductResponse{Error: "invalid product: name is required"}, nil
	}
	p := req.Product
	p.ID = "created"
	f.products[p.ID] = p
	return &catalog.CreateProductResponse{Product: &p}, nil
}

func (f *fakeCatalog) Availability(_ context.Context, req *catalog.AvailabilityRequest) (*catalog.AvailabilityResponse, error) {
	p, ok := f.products[req.ProductID]
	if !ok {
		return &catalog.AvailabilityResponse{Found: false}, nil
	}
	sel := inventory.Selection{Size: p.FindSize(req.SizeID), Color: p.FindColor(req.ColorID)}
	return &catalog.AvailabilityResponse{Found: true, Availability: inventory.View(&p, sel)}, nil
}

func (f *fakeCatalog) Selection(_ context.Context, req *catalog.SelectionRequest) (*catalog.SelectionResponse, error) {
	p, ok := f.products[req.ProductID]
	if !ok {
		return &catalog.SelectionResponse{Found: false}, nil
	}
	sel := inventory.Selection{Size: p.FindSize(req.SizeID), Color: p.FindColor(req.ColorID)}
	available := inventory.AvailableQuantity(&p, sel)
	return &catalog.SelectionResponse{
		Found:             true,
		Quantity:          req.Quantity,
		AvailableQuantity: available,
		CanAddToCart:      available >= req.Quantity,
	}, nil
}

// localCart serves cart.CartPort from an in-process cart service.
type localCart struct{ svc *cart.Service }

func (l localCart) GetCart(ctx context.Context, sessionID string) (*cart.CartView, error) {
	v, err := l.svc.Get(ctx, sessionID)
	return &v, err
}

func (l localCart) AddItem(ctx context.Context, req *cart.AddItemRequest) (*cart.AddItemResponse, error) {
	r, err := l.svc.AddItem(ctx, *req)
	return &r, err
}

func (l localCart) UpdateQuantity(ctx context.Context, req *cart.UpdateQuantityRequest) (*cart.CartResponse, error) {
	r, err := l.svc.UpdateQuantity(ctx, *req)
	return &r, err
}

func (l localCart) RemoveItem(ctx context.Context, req *cart.RemoveItemRequest) (*cart.RemoveItemResponse, error) {
	r, err := l.svc.RemoveItem(ctx, *req)
	return &r, err
}

func (l localCart) RemoveAll(ctx context.Context, sessionID string) (int, error) {
	return l.svc.RemoveAll(ctx, sessionID)
}

func (l localCart) Checkout(ctx context.Context, req *cart.CheckoutRequest) (*cart.CheckoutResponse, error) {
	r, err := l.svc.Checkout(ctx, *req)
	return &r, err
}

// localWishlist serves wishlist.WishlistPort from an in-process service.
type localWishlist struct{ svc *wishlist.Service }

func (l localWishlist) GetWishlist(ctx context.Context, sessionID string) (*wishlist.WishlistView, error) {
	v, err := l.svc.Get(ctx, sessionID)
	return &v, err
}

func (l localWishlist) AddItem(ctx context.Context, req *wishlist.AddItemRequest) (*wishlist.AddItemResponse, error) {
	r, err := l.svc.AddItem(ctx, *req)
	return &r, err
}

func (l localWishlist) RemoveItem(ctx context.Context, req *wishlist.RemoveItemRequest) (*wishlist.RemoveItemResponse, error) {
	r, err := l.svc.RemoveItem(ctx, *req)
	return &r, err
}

func (l localWishlist) RemoveAll(ctx context.Context, sessionID string) (int, error) {
	return l.svc.RemoveAll(ctx, sessionID)
}

// localCheckout serves checkout.CheckoutPort from an in-process service.
type localCheckout struct{ svc *checkout.Service }

func (l localCheckout) CompleteOrder(ctx context.Context, req *checkout.CompleteOrderRequest) (*checkout.CompleteOrderResponse, error) {
	r, err := l.svc.CompleteOrder(ctx, *req)
	return &r, err
}

func (l localCheckout) ListHandoffs(_ context.Context, sessionID string) (*checkout.ListHandoffsResponse, error) {
	handoffs := l.svc.Handoffs(sessionID)
	return &checkout.ListHandoffsResponse{Handoffs: handoffs, Total: len(handoffs)}, nil
}

func testProducts() map[string]domain.Product {
	return map[string]domain.Product{
		"tote": {
			ID:       "tote",
			Name:     "Tote",
			Price:    decimal.RequireFromString("12.75"),
			Quantity: domain.Stock(5),
		},
		"hoodie": {
			ID:    "hoodie",
			Name:  "Hoodie",
			Price: decimal.RequireFromString("49.99"),
			Sizes: []domain.Size{
				{ID: "s", ProductID: "hoodie", Name: "Small"},
				{ID: "m", ProductID: "hoodie", Name: "Medium"},
			},
			Colors: []domain.Color{
				{ID: "red", ProductID: "hoodie", Name: "Red"},
				{ID: "blue", ProductID: "hoodie", Name: "Blue"},
			},
			ColorSizeQuantities: []domain.ColorSizeQuantity{
				domain.NewCell("red", "s", 1),
				domain.NewCell("blue", "m", 3),
			},
		},
	}
}

const (
	shopper      = "8f0c2a4e-5d3b-4c61-9a7e-2b1f6d8e4c30"
	otherShopper = "1d6b9e72-3a4f-4e08-b5c2-7f9a0e1d2c43"
)

type testEnv struct {
	app    *fiber.App
	ledger *checkout.Ledger
}

func setupAPI(t *testing.T) *testEnv {
	t.Helper()
	log := &mockLogger{}
	products := &fakeCatalog{products: testProducts()}
	snapshots := snapshot.NewMemoryStore()

	cartSvc := cart.NewService(snapshots, products, nil, log)
	ledger := checkout.NewLedger()

	m := &APIModule{
		addr:     ":0",
		catalog:  products,
		cart:     localCart{svc: cartSvc},
		wishlist: localWishlist{svc: wishlist.NewService(snapshots, products, nil, log)},
		checkout: localCheckout{svc: checkout.NewService(ledger, cartSvc, nil, log)},
		logger:   log,
	}
	return &testEnv{app: m.newApp(), ledger: ledger}
}

func (e *testEnv) do(t *testing.T, method, path, session string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestHealth(t *testing.T) {
	env := setupAPI(t)

	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestSession_IssuedOnFirstContact(t *testing.T) {
	env := setupAPI(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	issued := resp.Header.Get(SessionHeader)
	assert.NotEmpty(t, issued)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, issued, cookie.Value)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/cart", shopper, nil)
	assert.Equal(t, shopper, resp.Header.Get(SessionHeader))
}

func TestSession_InvalidIDIsReplaced(t *testing.T) {
	env := setupAPI(t)

	for _, presented := range []string{
		"known-session",
		strings.Repeat("x", 4096),
		"{8f0c2a4e-5d3b-4c61-9a7e-2b1f6d8e4c30}",
	} {
		resp, _ := env.do(t, http.MethodGet, "/api/v1/cart", presented, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		issued := resp.Header.Get(SessionHeader)
		assert.NotEqual(t, presented, issued)
		_, err := uuid.Parse(issued)
		assert.NoError(t, err)
	}
}

func TestSession_CookieIsAccepted(t *testing.T) {
	env := setupAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: otherShopper})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, otherShopper, resp.Header.Get(SessionHeader))
}

func TestProducts(t *testing.T) {
	env := setupAPI(t)

	t.Run("get", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/products/tote", shopper, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Tote", body["name"])
	})

	t.Run("not found", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/products/missing", shopper, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "not_found", body["error"])
	})

	t.Run("list", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/products", shopper, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(2), body["total"])
	})

	t.Run("create invalid", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/products", shopper, map[string]any{"price": "3"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "validation_error", body["error"])
	})

	t.Run("create", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/products", shopper, map[string]any{"name": "Cap", "price": "15", "quantity": 4})
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "created", body["id"])
	})

	t.Run("availability", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/products/hoodie/availability?size=s", shopper, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["available_quantity"])
	})

	t.Run("selection", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/products/hoodie/selection?size=m&color=blue&quantity=2", shopper, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["can_add_to_cart"])
	})
}

func TestCart_AddAndReject(t *testing.T) {
	env := setupAPI(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/cart/items", shopper, CartItemRequest{ProductID: "tote", Quantity: 2})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["new_line"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/cart/items", shopper, CartItemRequest{ProductID: "tote", Quantity: 3})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/v1/cart/items", shopper, CartItemRequest{ProductID: "tote", Quantity: 1})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(inventory.ReasonInsufficientStock), body["error"])
	assert.Equal(t, float64(0), body["remaining"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/cart", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_items"])
	assert.Equal(t, "63.75", body["total_price"])
}

func TestCart_ReasonStatuses(t *testing.T) {
	env := setupAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		reason inventory.Reason
	}{
		{
			name:   "selection incomplete",
			method: http.MethodPost,
			path:   "/api/v1/cart/items",
			body:   CartItemRequest{ProductID: "hoodie", SizeID: "s", Quantity: 1},
			status: fiber.StatusUnprocessableEntity,
			reason: inventory.ReasonSelectionIncomplete,
		},
		{
			name:   "product unavailable",
			method: http.MethodPost,
			path:   "/api/v1/cart/items",
			body:   CartItemRequest{ProductID: "hoodie", SizeID: "m", ColorID: "red", Quantity: 1},
			status: fiber.StatusConflict,
			reason: inventory.ReasonProductUnavailable,
		},
		{
			name:   "invalid quantity",
			method: http.MethodPost,
			path:   "/api/v1/cart/items",
			body:   CartItemRequest{ProductID: "tote", Quantity: 0},
			status: fiber.StatusBadRequest,
			reason: inventory.ReasonInvalidQuantity,
		},
		{
			name:   "line not found",
			method: http.MethodPatch,
			path:   "/api/v1/cart/items",
			body:   CartItemRequest{ProductID: "tote", Quantity: 1},
			status: fiber.StatusNotFound,
			reason: inventory.ReasonLineNotFound,
		},
		{
			name:   "empty cart",
			method: http.MethodPost,
			path:   "/api/v1/cart/checkout",
			body:   CheckoutRequest{PaymentMethod: "card"},
			status: fiber.StatusUnprocessableEntity,
			reason: inventory.ReasonEmptyCart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, tt.method, tt.path, otherShopper, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, string(tt.reason), body["error"])
		})
	}
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	env := setupAPI(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", shopper, CartItemRequest{ProductID: "hoodie", SizeID: "m", ColorID: "blue", Quantity: 1})
	env.do(t, http.MethodPost, "/api/v1/cart/items", shopper, CartItemRequest{ProductID: "tote", Quantity: 1})

	resp, body := env.do(t, http.MethodPatch, "/api/v1/cart/items", shopper, CartItemRequest{ProductID: "hoodie", SizeID: "m", ColorID: "blue", Quantity: 3})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total_items"])

	resp, body = env.do(t, http.MethodDelete, "/api/v1/cart/items?product_id=hoodie&size_id=m&color_id=blue", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["removed"])

	resp, body = env.do(t, http.MethodDelete, "/api/v1/cart", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["cleared"])
}

func TestCheckout_Flow(t *testing.T) {
	env := setupAPI(t)

	env.do(t, http.MethodPost, "/api/v1/cart/items", shopper, CartItemRequest{ProductID: "tote", Quantity: 2})

	resp, body := env.do(t, http.MethodPost, "/api/v1/cart/checkout", shopper, CheckoutRequest{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", body["error"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/cart/checkout", shopper, CheckoutRequest{PaymentMethod: "card"})
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "card", body["payment_method"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/checkout/complete", shopper, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "no_pending_checkout", body["error"])

	// the event bus delivers the handoff in production
	env.ledger.Record(events.CheckoutRequestedEvent{SessionID: shopper, TotalItems: 1, Timestamp: time.Now()})

	resp, body = env.do(t, http.MethodPost, "/api/v1/checkout/complete", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["lines_freed"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/cart", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["total_items"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/checkout/handoffs", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])
}

func TestWishlist(t *testing.T) {
	env := setupAPI(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/wishlist/items", shopper, WishlistItemRequest{ProductID: "tote"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "added", body["status"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/wishlist/items", shopper, WishlistItemRequest{ProductID: "tote"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "already_present", body["status"])

	resp, body = env.do(t, http.MethodPost, "/api/v1/wishlist/items", shopper, WishlistItemRequest{ProductID: "missing"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(inventory.ReasonProductUnavailable), body["error"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/wishlist", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])

	resp, body = env.do(t, http.MethodDelete, "/api/v1/wishlist/items/tote", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["removed"])

	resp, body = env.do(t, http.MethodDelete, "/api/v1/wishlist", shopper, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["cleared"])
}
