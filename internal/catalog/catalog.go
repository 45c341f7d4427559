// Package catalog provides read-only product and category browsing. The
// backend owns and mutates this data; the storefront only reads it.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products. Read-only from this service.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable item. Price is in minor currency units.
type Product struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Price         int64      `json:"price"`
	StockQuantity int32      `json:"stock_quantity"`
	ImageURL      string     `json:"image_url,omitempty"`
	IsActive      bool       `json:"is_active"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Category      *Category  `json:"category,omitempty"`
}
