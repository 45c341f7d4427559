// Package profile manages the user's profile record: the display data kept in
// the relational backend alongside the identity provider's account.
package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the user's display record. Its ID equals the identity
// provider's user ID.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Updates carries a partial profile update; nil fields are left unchanged.
type Updates struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Phone    *string `json:"phone"     validate:"omitempty,max=32"`
	Address  *string `json:"address"   validate:"omitempty,max=500"`
}
