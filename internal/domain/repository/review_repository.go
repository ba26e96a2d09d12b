package repository

import (
	"context"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when a review is not found or hidden by scoping.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned when the user already reviewed the restaurant.
	ErrDuplicateReview = errors.New("review already exists")
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	LifecycleRepository

	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID, opts QueryOptions) (*entity.Review, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts QueryOptions, page Pagination) ([]*entity.Review, int64, error)

	// Update writes rating and comment.
	Update(ctx context.Context, review *entity.Review) error

	// ListActiveRatings returns the ratings of every active review of a restaurant.
	ListActiveRatings(ctx context.Context, restaurantID uuid.UUID) ([]int, error)

	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts QueryOptions) (int64, error)

	// PurgeInactiveByRestaurant permanently removes the soft-deleted rows of a restaurant.
	PurgeInactiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error)
}
