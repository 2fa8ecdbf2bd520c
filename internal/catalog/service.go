package catalog

import (
	"context"
	"log"
)

// Store is the persistence surface the catalog needs. Implemented by the
// Postgres store in internal/infrastructure/store.
type Store interface {
	// FindByName does a case-insensitive exact match and returns at most one
	// product.
	FindByName(ctx context.Context, name string) (*Product, error)
	// ListAll returns every product ordered by name ascending.
	ListAll(ctx context.Context) ([]Product, error)
	// Insert creates a new product row and returns it with id and created_at
	// filled in.
	Insert(ctx context.Context, input ProductInput) (*Product, error)
	// ApplyIntake sets the absolute stock quantity and, when non-nil, the new
	// prices in a single statement so the row is never half-updated.
	ApplyIntake(ctx context.Context, productID string, stockQuantity int, costPrice, sellingPrice *float64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) FindByName(ctx context.Context, name string) (*Product, error) {
	return s.store.FindByName(ctx, name)
}

func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	return s.store.ListAll(ctx)
}

// UpsertByName is the inventory intake path. If a product with this name
// already exists, the input quantity is added to its stock and prices are
// replaced only when they actually changed; otherwise a new product is
// created. The stock read-modify-write here mirrors the intake form and is
// subject to lost updates under concurrent intake of the same name.
func (s *Service) UpsertByName(ctx context.Context, input ProductInput) (*UpsertResult, error) {
	if input.Name == "" {
		return nil, ErrInvalidName
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if input.CostPrice < 0 || input.SellingPrice < 0 {
		return nil, ErrInvalidPrice
	}

	existing, err := s.store.FindByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		created, err := s.store.Insert(ctx, input)
		if err != nil {
			return nil, err
		}
		log.Printf("[Catalog] Created product %q with %d units", created.Name, created.StockQuantity)
		return &UpsertResult{IsNew: true, Product: *created}, nil
	}

	newQuantity := existing.StockQuantity + input.StockQuantity

	var costPrice, sellingPrice *float64
	if input.CostPrice != existing.CostPrice {
		costPrice = &input.CostPrice
	}
	if input.SellingPrice != existing.SellingPrice {
		sellingPrice = &input.SellingPrice
	}

	if err := s.store.ApplyIntake(ctx, existing.ID, newQuantity, costPrice, sellingPrice); err != nil {
		return nil, err
	}

	updated := *existing
	updated.StockQuantity = newQuantity
	if costPrice != nil {
		updated.CostPrice = *costPrice
	}
	if sellingPrice != nil {
		updated.SellingPrice = *sellingPrice
	}

	log.Printf("[Catalog] Added %d units to product %q (now %d)", input.StockQuantity, updated.Name, newQuantity)
	return &UpsertResult{IsNew: false, Product: updated}, nil
}
