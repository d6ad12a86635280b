package catalog

import (
	"context"
	"errors"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/example/storefront-inventory/domain/catalog"
	"github.com/example/storefront-inventory/domain/inventory"
)

// Service serves catalog reads through a read-through cache and answers
// availability questions with the inventory resolver.
type Service struct {
	repo    *Repository
	cache   ProductCache
	sfGroup singleflight.Group
	logger  types.Logger
}

// NewService creates a catalog service. A nil cache disables caching.
func NewService(repo *Repository, cache ProductCache, logger types.Logger) *Service {
	if cache == nil {
		cache = nopCache{}
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Get returns a product and whether it came from the cache. Concurrent
// misses for the same id share one database read.
func (s *Service) Get(ctx context.Context, id string) (*catalog.Product, bool, error) {
	cached, found, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("Cache read failed, falling back to database", "product_id", id, "error", err)
	}
	if found {
		return cached, true, nil
	}

	val, err, _ := s.sfGroup.Do(id, func() (any, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, false, err
	}
	p := val.(*catalog.Product)

	if err := s.cache.Set(ctx, p); err != nil {
		s.logger.Warn("Failed to cache product", "product_id", id, "error", err)
	}
	// callers sharing the flight must not alias one another's slices
	clone := p.Clone()
	return &clone, false, nil
}

// List returns products ordered by name.
func (s *Service) List(ctx context.Context, category string, includeArchived bool) ([]catalog.Product, error) {
	return s.repo.FindAll(ctx, category, includeArchived)
}

// Create validates and stores a product. Variant ids supplied by the caller
// are replaced with generated ones and matrix references are remapped.
func (s *Service) Create(ctx context.Context, p catalog.Product) (*catalog.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	p = p.Clone()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	sizeIDs := make(map[string]string, len(p.Sizes))
	for i := range p.Sizes {
		newID := uuid.New().String()
		sizeIDs[p.Sizes[i].ID] = newID
		p.Sizes[i].ID = newID
		p.Sizes[i].ProductID = p.ID
	}
	colorIDs := make(map[string]string, len(p.Colors))
	for i := range p.Colors {
		newID := uuid.New().String()
		colorIDs[p.Colors[i].ID] = newID
		p.Colors[i].ID = newID
		p.Colors[i].ProductID = p.ID
	}
	for i := range p.ColorSizeQuantities {
		cell := &p.ColorSizeQuantities[i]
		cell.ID = uuid.New().String()
		cell.ProductID = p.ID
		if cell.ColorID != nil {
			id := colorIDs[*cell.ColorID]
			cell.ColorID = &id
		}
		if cell.SizeID != nil {
			id := sizeIDs[*cell.SizeID]
			cell.SizeID = &id
		}
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, p.ID); err != nil {
		s.logger.Warn("Failed to invalidate cached product", "product_id", p.ID, "error", err)
	}

	s.logger.Info("Product created",
		"product_id", p.ID,
		"name", p.Name,
		"shape", inventory.ShapeOf(&p).String())
	return &p, nil
}

// Availability resolves stock for a product and an optional selection.
// Unknown variant ids are treated as not selected.
func (s *Service) Availability(ctx context.Context, productID, sizeID, colorID string) (inventory.ProductAvailability, error) {
	p, _, err := s.Get(ctx, productID)
	if err != nil {
		return inventory.ProductAvailability{}, err
	}
	sel := inventory.Selection{}
	if sizeID != "" {
		sel.Size = p.FindSize(sizeID)
	}
	if colorID != "" {
		sel.Color = p.FindColor(colorID)
	}
	return inventory.View(p, sel), nil
}

// Selection replays picks through a selection controller and reports
// whether the result could be added to a cart.
func (s *Service) Selection(ctx context.Context, req SelectionRequest) (*SelectionResponse, error) {
	p, _, err := s.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	ctrl := inventory.NewController(p)
	if req.SizeID != "" {
		ctrl.SelectSize(req.SizeID)
	}
	if req.ColorID != "" {
		ctrl.SelectColor(req.ColorID)
	}
	if req.Quantity > 1 {
		// a rejected quantity leaves the controller at its previous value
		_ = ctrl.SetQuantity(req.Quantity)
	}

	state := ctrl.State()
	sel := inventory.Selection{Size: state.Size, Color: state.Color}
	resp := &SelectionResponse{
		Found:             true,
		SizeID:            sel.SizeID(),
		ColorID:           sel.ColorID(),
		Quantity:          state.Quantity,
		AvailableQuantity: state.AvailableQuantity,
		Availability:      inventory.View(p, sel),
	}

	validateErr := ctrl.Validate()
	if validateErr == nil && state.Err != nil {
		validateErr = state.Err
	}
	var rej *inventory.Rejection
	switch {
	case validateErr == nil:
		resp.CanAddToCart = true
	case errors.As(validateErr, &rej):
		resp.Reason = rej.Reason
		resp.Remaining = rej.Remaining
		resp.Missing = rej.Missing
	default:
		return nil, validateErr
	}
	return resp, nil
}

// CacheStats returns the product cache counters.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}
