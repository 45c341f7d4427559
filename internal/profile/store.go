package profile

import (
	"context"

	"github.com/google/uuid"
)

// Store is the remote data gateway for profile rows.
type Store interface {
	// FindByID retrieves the profile row for the user.
	// Returns ErrProfileNotFound if no row exists.
	FindByID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// Create inserts a new profile row.
	Create(ctx context.Context, userID uuid.UUID, fullName string) error

	// Update applies a partial update to the profile row.
	// Returns ErrProfileNotFound if no row exists.
	Update(ctx context.Context, userID uuid.UUID, updates Updates) error
}
