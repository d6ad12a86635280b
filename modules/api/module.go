// Package api is the HTTP driving adapter. It calls the catalog, cart,
// wishlist and checkout modules through their ports.
package api

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/storefront-inventory/modules/cart"
	"github.com/example/storefront-inventory/modules/catalog"
	"github.com/example/storefront-inventory/modules/checkout"
	"github.com/example/storefront-inventory/modules/wishlist"
)

// APIModule exposes the storefront REST endpoints.
type APIModule struct {
	addr     string
	app      *fiber.App
	catalog  catalog.CatalogPort
	cart     cart.CartPort
	wishlist wishlist.WishlistPort
	checkout checkout.CheckoutPort
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on addr.
func NewModule(addr string, logger types.Logger) *APIModule {
	if addr == "" {
		addr = ":3000"
	}
	return &APIModule{addr: addr, logger: logger}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"catalog", "cart", "wishlist", "checkout"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.catalog = catalog.NewCatalogAdapter(container)
	case "cart":
		m.cart = cart.NewCartAdapter(container)
	case "wishlist":
		m.wishlist = wishlist.NewWishlistAdapter(container)
	case "checkout":
		m.checkout = checkout.NewCheckoutAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	switch {
	case m.catalog == nil:
		return fmt.Errorf("catalog dependency not set")
	case m.cart == nil:
		return fmt.Errorf("cart dependency not set")
	case m.wishlist == nil:
		return fmt.Errorf("wishlist dependency not set")
	case m.checkout == nil:
		return fmt.Errorf("checkout dependency not set")
	}

	m.app = m.newApp()

	// Server availability is verified via Health().
	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", m.addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Storefront Inventory",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		ExposeHeaders: SessionHeader,
	}))

	m.setupRoutes(app)
	return app
}

// errorHandler handles errors returned from Fiber routes.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		m.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
