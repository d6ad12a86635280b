package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/example/storefront-inventory/domain/catalog"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(setupTestDB(t))
	if err := repo.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return repo
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	color := "c1"
	p := &catalog.Product{
		ID:     "p1",
		Name:   "Mug",
		Price:  decimal.RequireFromString("12.50"),
		Colors: []catalog.Color{{ID: color, ProductID: "p1", Name: "Red"}},
		ColorSizeQuantities: []catalog.ColorSizeQuantity{
			{ID: "q1", ProductID: "p1", ColorID: &color, Quantity: 2},
		},
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "Mug" {
		t.Errorf("expected name Mug, got %s", found.Name)
	}
	if len(found.Colors) != 1 || len(found.ColorSizeQuantities) != 1 {
		t.Fatalf("expected variants to be preloaded, got %d colors and %d cells",
			len(found.Colors), len(found.ColorSizeQuantities))
	}
	cell := found.ColorSizeQuantities[0]
	if cell.ColorID == nil || *cell.ColorID != color || cell.SizeID != nil {
		t.Errorf("unexpected cell keys: %+v", cell)
	}
	if !found.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("expected price 12.50, got %s", found.Price)
	}
}

func TestRepository_FindByIDNotFound(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.FindByID(context.Background(), "missing")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t)

	products := []*catalog.Product{
		{ID: "p1", Name: "Tote", Category: "bags", Price: decimal.NewFromInt(10), Quantity: catalog.Stock(1)},
		{ID: "p2", Name: "Backpack", Category: "bags", Price: decimal.NewFromInt(40), Quantity: catalog.Stock(1)},
		{ID: "p3", Name: "Old Bag", Category: "bags", Price: decimal.NewFromInt(5), IsArchived: true},
		{ID: "p4", Name: "Mug", Category: "home", Price: decimal.NewFromInt(8)},
	}
	for _, p := range products {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	t.Run("by category without archived", func(t *testing.T) {
		got, err := repo.FindAll(ctx, "bags", false)
		if err != nil {
			t.Fatalf("FindAll failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 products, got %d", len(got))
		}
		if got[0].Name != "Backpack" || got[1].Name != "Tote" {
			t.Errorf("expected products ordered by name, got %s, %s", got[0].Name, got[1].Name)
		}
	})

	t.Run("including archived", func(t *testing.T) {
		got, err := repo.FindAll(ctx, "", true)
		if err != nil {
			t.Fatalf("FindAll failed: %v", err)
		}
		if len(got) != 4 {
			t.Errorf("expected 4 products, got %d", len(got))
		}
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 4 {
			t.Errorf("expected count 4, got %d", count)
		}
	})
}
