package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store against the backend's Postgres data API.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new catalog Store using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const productColumns = `
p.id, p.name, p.description, p.price, p.stock_quantity, p.image_url,
p.is_active, p.category_id, p.created_at,
c.id, c.name, c.image_url, c.created_at`

const activeProductsSQL = `
SELECT ` + productColumns + `
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.is_active
ORDER BY p.created_at DESC
LIMIT $1 OFFSET $2`

const searchProductsSQL = `
SELECT ` + productColumns + `
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.is_active AND (p.name ILIKE '%' || $1 || '%' OR p.description ILIKE '%' || $1 || '%')
ORDER BY p.created_at DESC
LIMIT $2 OFFSET $3`

// FindActive returns active products joined with their category, newest first.
func (p *PgStore) FindActive(ctx context.Context, offset, limit int32) ([]Product, error) {
	rows, err := p.db.Query(ctx, activeProductsSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find active products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Search returns active products matching the query by name or description.
func (p *PgStore) Search(ctx context.Context, query string, offset, limit int32) ([]Product, error) {
	rows, err := p.db.Query(ctx, searchProductsSQL, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := p.db.QueryRow(ctx, `
SELECT `+productColumns+`
FROM products p
LEFT JOIN categories c ON c.id = p.category_id
WHERE p.id = $1`, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// Categories returns up to limit categories.
func (p *PgStore) Categories(ctx context.Context, limit int32) ([]Category, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, COALESCE(image_url, ''), created_at FROM categories ORDER BY name LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var description, imageURL *string
	var cID *uuid.UUID
	var cName, cImageURL *string
	var cCreatedAt *time.Time
	if err := row.Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.StockQuantity, &imageURL,
		&p.IsActive, &p.CategoryID, &p.CreatedAt,
		&cID, &cName, &cImageURL, &cCreatedAt,
	); err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	if cID != nil {
		p.Category = &Category{ID: *cID, Name: *cName, CreatedAt: *cCreatedAt}
		if cImageURL != nil {
			p.Category.ImageURL = *cImageURL
		}
	}
	return &p, nil
}
