package repository

import (
	"context"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// ErrRestaurantNotFound is returned when a restaurant is not found or hidden by scoping.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantFilter narrows restaurant listings.
type RestaurantFilter struct {
	QueryOptions
	Pagination
	Status  *entity.Status
	OwnerID *uuid.UUID
	// Bound restricts results to a bounding box. Exact distance filtering happens above.
	Bound *orb.Bound
}

// RestaurantRepository defines persistence operations for restaurants.
type RestaurantRepository interface {
	LifecycleRepository

	Create(ctx context.Context, restaurant *entity.Restaurant) error
	FindByID(ctx context.Context, id uuid.UUID, opts QueryOptions) (*entity.Restaurant, error)

	// LockForUpdate is FindByID holding a row lock until the transaction ends. Writers of
	// the derived rating columns serialize on it.
	LockForUpdate(ctx context.Context, id uuid.UUID, opts QueryOptions) (*entity.Restaurant, error)
	List(ctx context.Context, filter RestaurantFilter) ([]*entity.Restaurant, int64, error)

	// Update writes the descriptive fields: name, description, address, phone and location.
	Update(ctx context.Context, restaurant *entity.Restaurant) error

	// UpdateOwner rewrites the owner pointer.
	UpdateOwner(ctx context.Context, id, ownerID uuid.UUID) error

	// UpdateRatingSummary stores the derived aggregate.
	UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary entity.RatingSummary) error
}
