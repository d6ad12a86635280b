package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-inventory/domain/catalog"
)

type memPersister struct {
	data    map[string][]byte
	saves   int
	deletes int
	err     error
}

func (m *memPersister) Load(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memPersister) Save(_ context.Context, key string, value any) error {
	m.saves++
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memPersister) Delete(_ context.Context, key string) error {
	m.deletes++
	if m.err != nil {
		return m.err
	}
	delete(m.data, key)
	return nil
}

func product(id, name string) catalog.Product {
	return catalog.Product{
		ID:                     id,
		Name:                   name,
		Price:                  decimal.RequireFromString("19.95"),
		IsCompletelyOutOfStock: true,
	}
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	s := NewStore(StorageKey, nil, nil)

	assert.True(t, s.AddItem(ctx, product("p1", "Scarf")), "out of stock products can be wishlisted")
	assert.False(t, s.AddItem(ctx, product("p1", "Scarf")))
	assert.True(t, s.AddItem(ctx, product("p2", "Gloves")))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "p2", items[1].ID)
	assert.True(t, s.Contains("p2"))
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	persister := &memPersister{data: map[string][]byte{}}
	s := NewStore(StorageKey, persister, nil)
	s.AddItem(ctx, product("p1", "Scarf"))

	assert.True(t, s.RemoveItem(ctx, "p1"))
	assert.False(t, s.RemoveItem(ctx, "p1"))
	assert.Empty(t, s.Items())
	assert.Equal(t, 2, persister.saves)
}

func TestRemoveAll(t *testing.T) {
	ctx := context.Background()
	persister := &memPersister{data: map[string][]byte{}}
	s := NewStore(StorageKey, persister, nil)
	s.AddItem(ctx, product("p1", "Scarf"))
	s.AddItem(ctx, product("p2", "Gloves"))

	assert.Equal(t, 2, s.RemoveAll(ctx))
	assert.False(t, s.Contains("p1"))
	assert.Equal(t, 1, persister.deletes)
	assert.NotContains(t, persister.data, StorageKey)
}

func TestItems_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(StorageKey, nil, nil)
	p := product("p1", "Scarf")
	p.Sizes = []catalog.Size{{ID: "s", ProductID: "p1", Name: "Small"}}
	p.ColorSizeQuantities = []catalog.ColorSizeQuantity{catalog.NewCell("", "s", 3)}
	s.AddItem(ctx, p)

	items := s.Items()
	items[0].Sizes[0].Name = "changed"
	items[0].ColorSizeQuantities[0].Quantity = 0

	stored := s.Items()[0]
	assert.Equal(t, "Small", stored.Sizes[0].Name)
	assert.Equal(t, 3, stored.ColorSizeQuantities[0].Quantity)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	persister := &memPersister{data: map[string][]byte{}}
	key := StorageKey + ":session-1"

	s, err := Open(ctx, key, persister, nil)
	require.NoError(t, err)
	s.AddItem(ctx, product("p2", "Gloves"))
	s.AddItem(ctx, product("p1", "Scarf"))

	reloaded, err := Open(ctx, key, persister, nil)
	require.NoError(t, err)
	assert.Equal(t, s.Items(), reloaded.Items())
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	persister := &memPersister{data: map[string][]byte{}, err: errors.New("quota exceeded")}
	s := NewStore(StorageKey, persister, nil)

	assert.True(t, s.AddItem(context.Background(), product("p1", "Scarf")))
	assert.True(t, s.Contains("p1"))
}
