package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Store is the remote data gateway for catalog reads.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type Store interface {
	// FindActive returns active products joined with their category, newest
	// first. Returns an empty slice if no products exist.
	FindActive(ctx context.Context, offset, limit int32) ([]Product, error)

	// Search returns active products whose name or description matches the
	// query, newest first.
	Search(ctx context.Context, query string, offset, limit int32) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Categories returns up to limit categories.
	Categories(ctx context.Context, limit int32) ([]Category, error)
}
