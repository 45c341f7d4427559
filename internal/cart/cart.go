// Package cart implements the cart store: an in-memory mirror of the user's
// persisted cart rows, kept consistent by refetching the full list from the
// backend after every mutation.
package cart

import (
	"time"

	"github.com/google/uuid"
)

// ProductSnapshot carries the denormalized product fields attached to a cart
// item via join. It is used for display and total computation without a
// separate catalog lookup.
type ProductSnapshot struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	StockQuantity int32     `json:"stock_quantity"`
	ImageURL      string    `json:"image_url"`
}

// Item is one persisted association of (user, product, quantity).
// Product is nil when the joined product row no longer exists.
type Item struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int32            `json:"quantity"`
	CreatedAt time.Time        `json:"created_at"`
	Product   *ProductSnapshot `json:"product,omitempty"`
}
