package repository

import (
	"context"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for menu persistence.
var (
	// ErrMenuNotFound is returned when a menu is not found or hidden by scoping.
	ErrMenuNotFound = errors.New("menu not found")
	// ErrVersionConflict is returned when the stored version differs from the expected one.
	ErrVersionConflict = errors.New("menu version conflict")
)

// MenuFilter narrows menu listings.
type MenuFilter struct {
	QueryOptions
	RestaurantID uuid.UUID
	CategoryID   *uuid.UUID
}

// MenuRepository defines persistence operations for menus.
// Every write increments Version.
type MenuRepository interface {
	LifecycleRepository

	Create(ctx context.Context, menu *entity.Menu) error
	FindByID(ctx context.Context, id uuid.UUID, opts QueryOptions) (*entity.Menu, error)
	List(ctx context.Context, filter MenuFilter) ([]*entity.Menu, error)

	// Update writes the descriptive fields only when the stored version equals expectedVersion.
	// On success menu.Version holds the new version.
	Update(ctx context.Context, menu *entity.Menu, expectedVersion int) error

	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts QueryOptions) (int64, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID, opts QueryOptions) (int64, error)

	PurgeInactiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	PurgeInactiveByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
