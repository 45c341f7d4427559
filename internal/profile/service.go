package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service manages profile records. Updates follow the storefront's
// refetch-after-write convention: the fresh row is re-read and returned
// rather than patched locally.
type Service struct {
	store Store
}

// NewService creates a new profile service with the provided store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get retrieves the user's profile.
// Returns ErrProfileNotFound if no row exists.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	prof, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for user %s: %w", userID, err)
	}
	return prof, nil
}

// Create inserts the profile row for a freshly registered user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, fullName string) error {
	return s.store.Create(ctx, userID, fullName)
}

// Update applies a partial update and returns the refreshed profile.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, updates Updates) (*Profile, error) {
	if err := s.store.Update(ctx, userID, updates); err != nil {
		return nil, fmt.Errorf("failed to update profile for user %s: %w", userID, err)
	}
	return s.Get(ctx, userID)
}
