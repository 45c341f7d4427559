package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Browser defines the read operations the storefront exposes for the catalog.
// It abstracts the underlying business logic and data access.
type Browser interface {
	// FindActive returns active products for the product listing screen.
	FindActive(ctx context.Context, offset, limit int32) ([]Product, error)

	// Search returns active products matching the query; a blank query falls
	// back to FindActive.
	Search(ctx context.Context, query string, offset, limit int32) ([]Product, error)

	// FindByID retrieves a single product for the detail screen.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Featured returns the first products shown on the home screen.
	Featured(ctx context.Context, limit int32) ([]Product, error)

	// Categories returns the categories shown on the home screen.
	Categories(ctx context.Context, limit int32) ([]Category, error)
}

// Service implements Browser over a Store.
type Service struct {
	store Store
}

// NewService creates a new catalog service with the provided store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// FindActive returns active products, newest first.
func (s *Service) FindActive(ctx context.Context, offset, limit int32) ([]Product, error) {
	products, err := s.store.FindActive(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// Search returns active products matching the query by name or description.
func (s *Service) Search(ctx context.Context, query string, offset, limit int32) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.FindActive(ctx, offset, limit)
	}
	products, err := s.store.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return product, nil
}

// Featured returns the first limit active products for the home screen.
func (s *Service) Featured(ctx context.Context, limit int32) ([]Product, error) {
	products, err := s.store.FindActive(ctx, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return products, nil
}

// Categories returns up to limit categories for the home screen.
func (s *Service) Categories(ctx context.Context, limit int32) ([]Category, error) {
	categories, err := s.store.Categories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}
