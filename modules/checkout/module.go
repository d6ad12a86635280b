package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/storefront-inventory/events"
	cartmodule "github.com/example/storefront-inventory/modules/cart"
)

// CheckoutModule consumes cart handoffs and completes orders.
type CheckoutModule struct {
	ledger   *Ledger
	cart     cartmodule.CartPort
	eventBus mono.EventBus
	service  *Service
	logger   types.Logger
}

var _ mono.Module = (*CheckoutModule)(nil)
var _ mono.ServiceProviderModule = (*CheckoutModule)(nil)
var _ mono.DependentModule = (*CheckoutModule)(nil)
var _ mono.EventConsumerModule = (*CheckoutModule)(nil)
var _ mono.EventEmitterModule = (*CheckoutModule)(nil)

func NewModule(logger types.Logger) *CheckoutModule {
	return &CheckoutModule{
		ledger: NewLedger(),
		logger: logger,
	}
}

func (m *CheckoutModule) Name() string {
	return "checkout"
}

func (m *CheckoutModule) Dependencies() []string {
	return []string{"cart"}
}

func (m *CheckoutModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "cart" {
		m.cart = cartmodule.NewCartAdapter(container)
	}
}

func (m *CheckoutModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *CheckoutModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderCompletedV1.ToBase(),
	}
}

func (m *CheckoutModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.CheckoutRequestedV1, m.handleCheckoutRequested, m); err != nil {
		return fmt.Errorf("failed to register CheckoutRequested consumer: %w", err)
	}
	m.logger.Info("Registered event consumers", "events", "CheckoutRequested")
	return nil
}

func (m *CheckoutModule) handleCheckoutRequested(_ context.Context, event events.CheckoutRequestedEvent, _ *mono.Msg) error {
	h := m.ledger.Record(event)
	m.logger.Info("Checkout handoff received",
		"handoff_id", h.ID,
		"session_id", h.SessionID,
		"lines", h.TotalItems,
		"total", h.TotalPrice.String(),
		"payment_method", h.PaymentMethod)
	return nil
}

func (m *CheckoutModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "complete-order", json.Unmarshal, json.Marshal, m.completeOrder,
	); err != nil {
		return fmt.Errorf("failed to register complete-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-handoffs", json.Unmarshal, json.Marshal, m.listHandoffs,
	); err != nil {
		return fmt.Errorf("failed to register list-handoffs service: %w", err)
	}

	m.logger.Info("Registered services", "services", "services.checkout.{complete-order,list-handoffs}")
	return nil
}

func (m *CheckoutModule) completeOrder(ctx context.Context, req CompleteOrderRequest, _ *mono.Msg) (CompleteOrderResponse, error) {
	return m.service.CompleteOrder(ctx, req)
}

func (m *CheckoutModule) listHandoffs(_ context.Context, req ListHandoffsRequest, _ *mono.Msg) (ListHandoffsResponse, error) {
	handoffs := m.service.Handoffs(req.SessionID)
	return ListHandoffsResponse{Handoffs: handoffs, Total: len(handoffs)}, nil
}

func (m *CheckoutModule) Start(_ context.Context) error {
	if m.cart == nil {
		return fmt.Errorf("cart dependency not set")
	}
	m.service = NewService(m.ledger, m.cart, m.eventBus, m.logger)
	m.logger.Info("Checkout module started - listening for cart handoffs")
	return nil
}

func (m *CheckoutModule) Stop(_ context.Context) error {
	m.logger.Info("Checkout module stopped")
	return nil
}
