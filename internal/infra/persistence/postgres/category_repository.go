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

// categoryRepository implements the repository.CategoryRepository interface.
type categoryRepository struct {
	lifecycleTable[model.CategoryModel]
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{
		lifecycleTable: newLifecycleTable[model.CategoryModel](db, repository.ErrCategoryNotFound, false),
	}
}

// Create persists a new category.
func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	if err := ensureID(&category.ID); err != nil {
		return err
	}

	categoryM := fromCategoryDomain(category)
	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

// FindByID retrieves a category by id under the given scoping.
func (repo *categoryRepository) FindByID(ctx context.Context, id uuid.UUID, opts repository.QueryOptions) (*entity.Category, error) {
	categoryM, err := repo.first(ctx, id, opts)
	if err != nil {
		return nil, err
	}

	return toCategoryDomain(categoryM), nil
}

// ListByRestaurant lists the categories of a restaurant ordered by position.
func (repo *categoryRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts repository.QueryOptions) ([]*entity.Category, error) {
	var categoryModels []*model.CategoryModel

	if err := repo.scoped(ctx, opts).
		Where("restaurant_id = ?", restaurantID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(categoryModels))
	for _, categoryM := range categoryModels {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return categories, nil
}

// Update writes the descriptive fields of an active category.
func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := repo.scoped(ctx, repository.QueryOptions{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":        category.Name,
			"description": category.Description,
			"position":    category.Position,
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update category")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// CountByRestaurant counts categories of a restaurant under the given scoping.
func (repo *categoryRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts repository.QueryOptions) (int64, error) {
	return repo.count(ctx, opts, "restaurant_id = ?", restaurantID)
}

// PurgeInactiveByRestaurant removes the soft-deleted category rows of a restaurant.
func (repo *categoryRepository) PurgeInactiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	return repo.purgeInactive(ctx, "restaurant_id = ?", restaurantID)
}

// --- Mapper Functions ---

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	return &entity.Category{
		ID:           data.ID,
		RestaurantID: data.RestaurantID,
		Name:         data.Name,
		Description:  data.Description,
		Position:     data.Position,
		Lifecycle:    toLifecycleDomain(data.LifecycleColumns),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromCategoryDomain(data *entity.Category) *model.CategoryModel {
	if data == nil {
		return nil
	}

	return &model.CategoryModel{
		ID:               data.ID,
		RestaurantID:     data.RestaurantID,
		Name:             data.Name,
		Description:      data.Description,
		Position:         data.Position,
		LifecycleColumns: fromLifecycleDomain(data.Lifecycle),
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
