package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/example/storefront-inventory/domain/catalog"
)

// ErrNotFound is returned when a product is not found.
var ErrNotFound = errors.New("product not found")

// Repository provides access to product storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new product repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the catalog tables.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(
		&catalog.Product{},
		&catalog.Size{},
		&catalog.Color{},
		&catalog.ColorSizeQuantity{},
	); err != nil {
		return fmt.Errorf("failed to migrate catalog tables: %w", err)
	}
	return nil
}

// Create saves a product together with its variants and stock matrix.
func (r *Repository) Create(ctx context.Context, p *catalog.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product with its variants and stock matrix.
func (r *Repository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	var p catalog.Product
	err := r.withVariants(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

// FindAll retrieves products, optionally narrowed to a category. Archived
// products are skipped unless includeArchived is set.
func (r *Repository) FindAll(ctx context.Context, category string, includeArchived bool) ([]catalog.Product, error) {
	query := r.withVariants(ctx).Order("name")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// Count returns the number of stored products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *Repository) withVariants(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Sizes").
		Preload("Colors").
		Preload("ColorSizeQuantities")
}
