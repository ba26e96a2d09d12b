// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. Users are never deleted, only deactivated.
type User struct {
	ID                uuid.UUID  `json:"id"`                            // The Global Unique Identifier (GUID) for the user.
	Email             string     `json:"email"`                         // The login identifier.
	Name              string     `json:"name"`                          // The user's display name.
	PasswordHash      string     `json:"-"`                             // bcrypt hash of the password, never serialized.
	Role              Role       `json:"role"`                          // The single role held by the user.
	OwnedRestaurantID *uuid.UUID `json:"owned_restaurant_id,omitempty"` // Restaurant owned by an admin, if any.
	IsActive          bool       `json:"is_active"`                     // False once the account has been deactivated.
	CreatedAt         time.Time  `json:"created_at"`                    // Timestamp of when this user account was created.
	UpdatedAt         time.Time  `json:"updated_at"`                    // Timestamp of the last modification to this user's data.
}

// Principal returns the request-scoped identity of the user.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:                u.ID,
		Role:              u.Role,
		IsActive:          u.IsActive,
		OwnedRestaurantID: u.OwnedRestaurantID,
	}
}

// Principal is the authenticated identity resolved from storage for a single request.
type Principal struct {
	ID                uuid.UUID
	Role              Role
	IsActive          bool
	OwnedRestaurantID *uuid.UUID
}

// IsSuperAdmin reports whether the principal bypasses ownership checks.
func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == RoleSuperAdmin
}

// OwnsRestaurant reports whether the principal's ownership pointer names the restaurant.
func (p *Principal) OwnsRestaurant(restaurantID uuid.UUID) bool {
	return p != nil && p.OwnedRestaurantID != nil && *p.OwnedRestaurantID == restaurantID
}
