package cart

import (
	"context"

	"github.com/google/uuid"
)

// Gateway is the remote data gateway for cart rows. The backend exclusively
// owns durable state; implementations never cache.
type Gateway interface {
	// ListByUser returns all cart rows owned by the user, joined with their
	// product snapshot, ordered by creation time descending.
	// Returns an empty slice if the cart is empty.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)

	// FindByUserAndProduct retrieves the single cart row for (user, product).
	// Returns ErrItemNotFound if no such row exists.
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Item, error)

	// Insert adds a new cart row for the user.
	Insert(ctx context.Context, userID, productID uuid.UUID, quantity int32) error

	// UpdateQuantity sets the quantity of a cart row owned by the user.
	// Returns ErrItemNotFound if the user has no such row.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int32) error

	// DeleteByID removes a cart row owned by the user.
	// Returns ErrItemNotFound if the user has no such row.
	DeleteByID(ctx context.Context, userID, itemID uuid.UUID) error

	// DeleteByUser removes all cart rows belonging to the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
