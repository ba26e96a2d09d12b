package usecase

import (
	"context"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateRestaurantInput defines a new restaurant. OwnerID may only be set by a
// platform operator; otherwise the caller becomes the owner.
type CreateRestaurantInput struct {
	OwnerID     *uuid.UUID
	Name        string
	Description string
	Address     string
	Phone       string
	Latitude    float64
	Longitude   float64
}

// UpdateRestaurantInput carries the fields to change. Nil fields are left untouched.
type UpdateRestaurantInput struct {
	Name        *string
	Description *string
	Address     *string
	Phone       *string
	Latitude    *float64
	Longitude   *float64
}

// NearFilter restricts a listing to restaurants within RadiusKm of a point.
type NearFilter struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// ListRestaurantsInput narrows a restaurant listing.
type ListRestaurantsInput struct {
	IncludeInactive bool
	Status          *entity.Status
	OwnerID         *uuid.UUID
	Near            *NearFilter
	Page            int
	PageSize        int
}

// RestaurantPage is one page of restaurants.
type RestaurantPage struct {
	Items    []*entity.Restaurant
	Total    int64
	Page     int
	PageSize int
}

// RestaurantUsecase defines restaurant management.
type RestaurantUsecase interface {
	Create(ctx context.Context, p *entity.Principal, input CreateRestaurantInput) (*entity.Restaurant, error)
	Get(ctx context.Context, p *entity.Principal, id uuid.UUID, includeInactive bool) (*entity.Restaurant, error)
	List(ctx context.Context, p *entity.Principal, input ListRestaurantsInput) (*RestaurantPage, error)
	Update(ctx context.Context, p *entity.Principal, id uuid.UUID, input UpdateRestaurantInput) (*entity.Restaurant, error)
	ChangeStatus(ctx context.Context, p *entity.Principal, id uuid.UUID, status entity.Status) (*entity.Restaurant, error)
	SoftDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error
	Restore(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Restaurant, error)
	HardDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error
	// ReassignOwner moves ownership to another admin and rewrites both users' pointers.
	ReassignOwner(ctx context.Context, p *entity.Principal, id, newOwnerID uuid.UUID) (*entity.Restaurant, error)
	// QRCode renders a PNG linking to the restaurant.
	QRCode(ctx context.Context, p *entity.Principal, id uuid.UUID) ([]byte, error)
	// ResolveQR returns the restaurant a scanned QR code points at.
	ResolveQR(ctx context.Context, p *entity.Principal, content string) (*entity.Restaurant, error)
}
