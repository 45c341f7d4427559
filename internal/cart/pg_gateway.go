package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgGateway implements Gateway against the backend's Postgres data API.
type PgGateway struct {
	db *pgxpool.Pool
}

// NewPgGateway creates a new cart Gateway using a PostgreSQL connection pool.
func NewPgGateway(dbp *pgxpool.Pool) *PgGateway {
	return &PgGateway{db: dbp}
}

const listByUserSQL = `
SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
       p.id, p.name, p.price, p.stock_quantity, p.image_url
FROM cart_items ci
LEFT JOIN products p ON p.id = ci.product_id
WHERE ci.user_id = $1
ORDER BY ci.created_at DESC`

// ListByUser returns all of the user's cart rows joined with their product
// snapshot, newest first.
func (g *PgGateway) ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	rows, err := g.db.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		var pID *uuid.UUID
		var pName, pImageURL *string
		var pPrice *int64
		var pStock *int32
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&pID, &pName, &pPrice, &pStock, &pImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if pID != nil {
			item.Product = &ProductSnapshot{
				ID:            *pID,
				Name:          *pName,
				Price:         *pPrice,
				StockQuantity: *pStock,
			}
			if pImageURL != nil {
				item.Product.ImageURL = *pImageURL
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}
	return items, nil
}

// FindByUserAndProduct retrieves the cart row for (user, product).
// Returns ErrItemNotFound if no such row exists.
func (g *PgGateway) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*Item, error) {
	var item Item
	err := g.db.QueryRow(ctx,
		`SELECT id, user_id, product_id, quantity, created_at
		 FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

// Insert adds a new cart row for the user.
func (g *PgGateway) Insert(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	_, err := g.db.Exec(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)`,
		userID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of a cart row owned by the user. The
// user_id predicate keeps one user's rows out of another user's reach.
// Returns ErrItemNotFound if the user has no such row.
func (g *PgGateway) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int32) error {
	tag, err := g.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE id = $1 AND user_id = $2`,
		itemID, userID, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteByID removes a cart row owned by the user. The user_id predicate
// keeps one user's rows out of another user's reach.
// Returns ErrItemNotFound if the user has no such row.
func (g *PgGateway) DeleteByID(ctx context.Context, userID, itemID uuid.UUID) error {
	tag, err := g.db.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteByUser removes all cart rows belonging to the user.
func (g *PgGateway) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := g.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
