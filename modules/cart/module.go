// Package cart serves per-session shopping carts. Each session's cart is
// restored from the snapshot plugin on first use and written back after
// every successful mutation.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/storefront-inventory/events"
	catalogmodule "github.com/example/storefront-inventory/modules/catalog"
	"github.com/example/storefront-inventory/modules/snapshot"
)

// CartModule provides the cart services.
type CartModule struct {
	snapshots   *snapshot.PluginModule
	catalog     catalogmodule.CatalogPort
	eventBus    mono.EventBus
	service     *Service
	maxSessions int
	logger      types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*CartModule)(nil)
	_ mono.ServiceProviderModule = (*CartModule)(nil)
	_ mono.DependentModule       = (*CartModule)(nil)
	_ mono.EventEmitterModule    = (*CartModule)(nil)
	_ mono.UsePluginModule       = (*CartModule)(nil)
	_ mono.HealthCheckableModule = (*CartModule)(nil)
)

// NewModule creates a new CartModule.
func NewModule(maxSessions int, logger types.Logger) *CartModule {
	return &CartModule{maxSessions: maxSessions, logger: logger}
}

// Name returns the module name.
func (m *CartModule) Name() string {
	return "cart"
}

// Dependencies returns the modules the cart reads from.
func (m *CartModule) Dependencies() []string {
	return []string{"catalog"}
}

// SetDependencyServiceContainer wires the catalog adapter.
func (m *CartModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.catalog = catalogmodule.NewCatalogAdapter(container)
	}
}

// SetPlugin receives the snapshot plugin. Its store is resolved in Start,
// after the plugin itself has started.
func (m *CartModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "snapshot" {
		if p, ok := plugin.(*snapshot.PluginModule); ok {
			m.snapshots = p
			m.logger.Debug("Snapshot plugin injected")
		}
	}
}

// SetEventBus sets the event bus used to publish cart events.
func (m *CartModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *CartModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ItemAddedV1.ToBase(),
		events.QuantityUpdatedV1.ToBase(),
		events.ItemRemovedV1.ToBase(),
		events.CartClearedV1.ToBase(),
		events.CheckoutRequestedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *CartModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-cart", json.Unmarshal, json.Marshal, m.getCart,
	); err != nil {
		return fmt.Errorf("failed to register get-cart service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "add-item", json.Unmarshal, json.Marshal, m.addItem,
	); err != nil {
		return fmt.Errorf("failed to register add-item service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-quantity", json.Unmarshal, json.Marshal, m.updateQuantity,
	); err != nil {
		return fmt.Errorf("failed to register update-quantity service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "remove-item", json.Unmarshal, json.Marshal, m.removeItem,
	); err != nil {
		return fmt.Errorf("failed to register remove-item service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "remove-all", json.Unmarshal, json.Marshal, m.removeAll,
	); err != nil {
		return fmt.Errorf("failed to register remove-all service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "checkout", json.Unmarshal, json.Marshal, m.checkout,
	); err != nil {
		return fmt.Errorf("failed to register checkout service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "services.cart.{get-cart,add-item,update-quantity,remove-item,remove-all,checkout}")
	return nil
}

// Start builds the service once its dependencies are in place.
func (m *CartModule) Start(_ context.Context) error {
	if m.catalog == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	if m.snapshots == nil || m.snapshots.Port() == nil {
		return fmt.Errorf("snapshot plugin not set - ensure 'snapshot' plugin is registered")
	}
	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, cart events will not be published")
	}

	m.service = NewService(m.snapshots.Port(), m.catalog, m.eventBus, m.logger)
	if m.maxSessions > 0 {
		m.service.LimitSessions(m.maxSessions)
	}
	m.logger.Info("Cart module started", "depends_on", "catalog")
	return nil
}

// Stop stops the module. Snapshots are written on every mutation, so there
// is nothing to flush.
func (m *CartModule) Stop(_ context.Context) error {
	m.logger.Info("Cart module stopped")
	return nil
}

// Health reports the number of open carts.
func (m *CartModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"sessions": m.service.Sessions(),
		},
	}
}
