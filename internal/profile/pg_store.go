package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store against the backend's Postgres data API.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new profile Store using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByID retrieves the profile row for the user.
// Returns ErrProfileNotFound if no row exists.
func (p *PgStore) FindByID(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var prof Profile
	err := p.db.QueryRow(ctx,
		`SELECT id, full_name, COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at
		 FROM profiles WHERE id = $1`, userID,
	).Scan(&prof.ID, &prof.FullName, &prof.Phone, &prof.Address, &prof.CreatedAt, &prof.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &prof, nil
}

// Create inserts a new profile row.
func (p *PgStore) Create(ctx context.Context, userID uuid.UUID, fullName string) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO profiles (id, full_name) VALUES ($1, $2)`, userID, fullName)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Update applies a partial update; nil fields keep their current value.
// Returns ErrProfileNotFound if no row exists.
func (p *PgStore) Update(ctx context.Context, userID uuid.UUID, updates Updates) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE profiles
		 SET full_name = COALESCE($2, full_name),
		     phone     = COALESCE($3, phone),
		     address   = COALESCE($4, address),
		     updated_at = now()
		 WHERE id = $1`,
		userID, updates.FullName, updates.Phone, updates.Address)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
