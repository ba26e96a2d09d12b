package postgres

import (
	"context"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	lifecycleTable[model.ReviewModel]
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		lifecycleTable: newLifecycleTable[model.ReviewModel](db, repository.ErrReviewNotFound, false),
	}
}

// Create persists a new review. A second review by the same user for the same
// restaurant, active or not, is rejected.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if err := ensureID(&review.ID); err != nil {
		return err
	}

	reviewM := fromReviewDomain(review)
	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// FindByID retrieves a review by id under the given scoping.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID, opts repository.QueryOptions) (*entity.Review, error) {
	reviewM, err := repo.first(ctx, id, opts)
	if err != nil {
		return nil, err
	}

	return toReviewDomain(reviewM), nil
}

// ListByRestaurant pages through the reviews of a restaurant newest first.
func (repo *reviewRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts repository.QueryOptions, page repository.Pagination) ([]*entity.Review, int64, error) {
	base := repo.scoped(ctx, opts).Where("restaurant_id = ?", restaurantID).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count reviews")
	}

	p := page.Normalize()
	var reviewModels []*model.ReviewModel
	if err := base.
		Order("created_at DESC").
		Order("id DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&reviewModels).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list reviews")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, total, nil
}

// Update writes rating and comment of an active review.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result := repo.scoped(ctx, repository.QueryOptions{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":  review.Rating,
			"comment": review.Comment,
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// ListActiveRatings returns the ratings of every active review of a restaurant.
func (repo *reviewRepository) ListActiveRatings(ctx context.Context, restaurantID uuid.UUID) ([]int, error) {
	var ratings []int

	if err := repo.scoped(ctx, repository.QueryOptions{}).
		Where("restaurant_id = ?", restaurantID).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list ratings")
	}

	return ratings, nil
}

// CountByRestaurant counts reviews of a restaurant under the given scoping.
func (repo *reviewRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts repository.QueryOptions) (int64, error) {
	return repo.count(ctx, opts, "restaurant_id = ?", restaurantID)
}

// PurgeInactiveByRestaurant removes the soft-deleted review rows of a restaurant.
func (repo *reviewRepository) PurgeInactiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	return repo.purgeInactive(ctx, "restaurant_id = ?", restaurantID)
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:           data.ID,
		RestaurantID: data.RestaurantID,
		UserID:       data.UserID,
		Rating:       data.Rating,
		Comment:      data.Comment,
		Lifecycle:    toLifecycleDomain(data.LifecycleColumns),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:               data.ID,
		RestaurantID:     data.RestaurantID,
		UserID:           data.UserID,
		Rating:           data.Rating,
		Comment:          data.Comment,
		LifecycleColumns: fromLifecycleDomain(data.Lifecycle),
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
