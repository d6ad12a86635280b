// Package wishlist serves per-session wishlists backed by the snapshot
// plugin.
package wishlist

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

// WishlistModule provides the wishlist services.
type WishlistModule struct {
	snapshots   *snapshot.PluginModule
	catalog     catalogmodule.CatalogPort
	eventBus    mono.EventBus
	service     *Service
	maxSessions int
	logger      types.Logger
}

var _ mono.Module = (*WishlistModule)(nil)
var _ mono.ServiceProviderModule = (*WishlistModule)(nil)
var _ mono.DependentModule = (*WishlistModule)(nil)
var _ mono.EventEmitterModule = (*WishlistModule)(nil)
var _ mono.UsePluginModule = (*WishlistModule)(nil)

func NewModule(maxSessions int, logger types.Logger) *WishlistModule {
	return &WishlistModule{maxSessions: maxSessions, logger: logger}
}

func (m *WishlistModule) Name() string {
	return "wishlist"
}

func (m *WishlistModule) Dependencies() []string {
	return []string{"catalog"}
}

func (m *WishlistModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "catalog" {
		m.catalog = catalogmodule.NewCatalogAdapter(container)
	}
}

func (m *WishlistModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias == "snapshot" {
		if p, ok := plugin.(*snapshot.PluginModule); ok {
			m.snapshots = p
		}
	}
}

func (m *WishlistModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *WishlistModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.WishlistItemAddedV1.ToBase(),
		events.WishlistItemRemovedV1.ToBase(),
	}
}

func (m *WishlistModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-wishlist", json.Unmarshal, json.Marshal, m.getWishlist,
	); err != nil {
		return fmt.Errorf("failed to register get-wishlist service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "add-item", json.Unmarshal, json.Marshal, m.addItem,
	); err != nil {
		return fmt.Errorf("failed to register add-item service: %w", err)
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

	m.logger.Info("Registered services",
		"services", "services.wishlist.{get-wishlist,add-item,remove-item,remove-all}")
	return nil
}

func (m *WishlistModule) Start(_ context.Context) error {
	if m.catalog == nil {
		return fmt.Errorf("catalog dependency not set")
	}
	if m.snapshots == nil || m.snapshots.Port() == nil {
		return fmt.Errorf("snapshot plugin not set - ensure 'snapshot' plugin is registered")
	}
	m.service = NewService(m.snapshots.Port(), m.catalog, m.eventBus, m.logger)
	if m.maxSessions > 0 {
		m.service.LimitSessions(m.maxSessions)
	}
	m.logger.Info("Wishlist module started", "depends_on", "catalog")
	return nil
}

func (m *WishlistModule) Stop(_ context.Context) error {
	m.logger.Info("Wishlist module stopped")
	return nil
}

func (m *WishlistModule) getWishlist(ctx context.Context, req GetWishlistRequest, _ *mono.Msg) (WishlistView, error) {
	return m.service.Get(ctx, req.SessionID)
}

func (m *WishlistModule) addItem(ctx context.Context, req AddItemRequest, _ *mono.Msg) (AddItemResponse, error) {
	return m.service.AddItem(ctx, req)
}

func (m *WishlistModule) removeItem(ctx context.Context, req RemoveItemRequest, _ *mono.Msg) (RemoveItemResponse, error) {
	return m.service.RemoveItem(ctx, req)
}

func (m *WishlistModule) removeAll(ctx context.Context, req RemoveAllRequest, _ *mono.Msg) (RemoveAllResponse, error) {
	cleared, err := m.service.RemoveAll(ctx, req.SessionID)
	if err != nil {
		return RemoveAllResponse{}, err
	}
	return RemoveAllResponse{Cleared: cleared}, nil
}
