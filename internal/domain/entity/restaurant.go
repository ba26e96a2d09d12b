package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Restaurant is the top-level owned resource. Categories, menus and reviews hang off it.
type Restaurant struct {
	ID          uuid.UUID     `json:"id"`          // The Global Unique Identifier (GUID) for the restaurant.
	OwnerID     uuid.UUID     `json:"owner_id"`    // The admin owning the restaurant.
	Name        string        `json:"name"`        // Display name.
	Description string        `json:"description"` // Free-form description.
	Address     string        `json:"address"`     // Street address.
	Phone       string        `json:"phone"`       // Contact phone number.
	Location    orb.Point     `json:"location"`    // Longitude/latitude of the restaurant.
	Rating      RatingSummary `json:"rating"`      // Derived from active reviews, never written by clients.
	Lifecycle
	CreatedAt time.Time `json:"created_at"` // Timestamp of creation.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last modification.
}

// Category groups menus of a restaurant.
type Category struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"` // Parent restaurant, the transitive owner.
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Position     int       `json:"position"` // Sort order within the restaurant.
	Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Menu is a dish offered by a restaurant. Version guards concurrent edits.
type Menu struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	PriceCents   int64      `json:"price_cents"`
	Version      int        `json:"version"` // Incremented on every write.
	Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is a diner's rating of a restaurant. A user reviews a restaurant at most once.
type Review struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	UserID       uuid.UUID `json:"user_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Lifecycle
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
