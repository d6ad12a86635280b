package wishlist

import (
	"context"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
	catalogmodule "github.com/example/storefront-inventory/modules/catalog"
	"github.com/example/storefront-inventory/modules/snapshot"
)

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)          {}
func (m *mockLogger) Info(msg string, args ...any)           {}
func (m *mockLogger) Warn(msg string, args ...any)           {}
func (m *mockLogger) Error(msg string, args ...any)          {}
func (m *mockLogger) With(args ...any) types.Logger          { return m }
func (m *mockLogger) WithError(err error) types.Logger       { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

type fakeCatalog map[string]catalog.Product

func (f fakeCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, catalogmodule.ErrNotFound
	}
	return &p, nil
}

func products() fakeCatalog {
	return fakeCatalog{
		"mug": {ID: "mug", Name: "Mug", Price: decimal.RequireFromString("8.25"), Quantity: catalog.Stock(3)},
		"sold-out": {
			ID:                     "sold-out",
			Name:                   "Sold Out Scarf",
			Price:                  decimal.NewFromInt(20),
			Quantity:               catalog.Stock(0),
			IsCompletelyOutOfStock: true,
		},
	}
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	s := NewService(snapshot.NewMemoryStore(), products(), nil, &mockLogger{})

	resp, err := s.AddItem(ctx, AddItemRequest{SessionID: "sess", ProductID: "mug"})
	require.NoError(t, err)
	assert.True(t, resp.Added)
	assert.Empty(t, resp.Reason)
	assert.Equal(t, 1, resp.Wishlist.Total)

	resp, err = s.AddItem(ctx, AddItemRequest{SessionID: "sess", ProductID: "mug"})
	require.NoError(t, err)
	assert.False(t, resp.Added)
	assert.Equal(t, inventory.ReasonDuplicateWishlistEntry, resp.Reason)
	assert.Equal(t, 1, resp.Wishlist.Total)

	resp, err = s.AddItem(ctx, AddItemRequest{SessionID: "sess", ProductID: "sold-out"})
	require.NoError(t, err)
	assert.True(t, resp.Added, "stock does not gate wishlist membership")

	resp, err = s.AddItem(ctx, AddItemRequest{SessionID: "sess", ProductID: "missing"})
	require.NoError(t, err)
	assert.False(t, resp.Added)
	assert.Equal(t, inventory.ReasonProductUnavailable, resp.Reason)
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	s := NewService(snapshot.NewMemoryStore(), products(), nil, &mockLogger{})

	_, err := s.AddItem(ctx, AddItemRequest{SessionID: "sess", ProductID: "mug"})
	require.NoError(t, err)

	resp, err := s.RemoveItem(ctx, RemoveItemRequest{SessionID: "sess", ProductID: "mug"})
	require.NoError(t, err)
	assert.True(t, resp.Removed)
	assert.Zero(t, resp.Wishlist.Total)

	resp, err = s.RemoveItem(ctx, RemoveItemRequest{SessionID: "sess", ProductID: "mug"})
	require.NoError(t, err)
	assert.False(t, resp.Removed)
}

func TestService_RemoveAllAndRestore(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStore()
	s := NewService(store, products(), nil, &mockLogger{})

	for _, id := range []string{"mug", "sold-out"} {
		_, err := s.AddItem(ctx, AddItemRequest{SessionID: "sess", ProductID: id})
		require.NoError(t, err)
	}

	restarted := NewService(store, products(), nil, &mockLogger{})
	view, err := restarted.Get(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "mug", view.Items[0].ID)

	cleared, err := restarted.RemoveAll(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	view, err = NewService(store, products(), nil, &mockLogger{}).Get(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestService_MissingSession(t *testing.T) {
	s := NewService(snapshot.NewMemoryStore(), products(), nil, &mockLogger{})

	_, err := s.AddItem(context.Background(), AddItemRequest{ProductID: "mug"})
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestService_EvictsLeastRecentlyUsedWishlist(t *testing.T) {
	ctx := context.Background()
	s := NewService(snapshot.NewMemoryStore(), products(), nil, &mockLogger{})
	s.LimitSessions(1)

	_, err := s.AddItem(ctx, AddItemRequest{SessionID: "a", ProductID: "mug"})
	require.NoError(t, err)
	_, err = s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Sessions())

	view, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, view.Items, 1, "evicted wishlists come back from their snapshot")
	assert.Equal(t, "mug", view.Items[0].ID)
	assert.Equal(t, 1, s.Sessions())
}
