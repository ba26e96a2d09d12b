package repository

import (
	"context"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrCategoryNotFound is returned when a category is not found or hidden by scoping.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository defines persistence operations for menu categories.
type CategoryRepository interface {
	LifecycleRepository

	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID, opts QueryOptions) (*entity.Category, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts QueryOptions) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error

	// CountByRestaurant counts categories of a restaurant under the given scoping.
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts QueryOptions) (int64, error)

	// PurgeInactiveByRestaurant permanently removes the soft-deleted rows of a restaurant.
	PurgeInactiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}
