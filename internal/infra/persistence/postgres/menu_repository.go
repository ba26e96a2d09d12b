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

// menuRepository implements the repository.MenuRepository interface.
type menuRepository struct {
	lifecycleTable[model.MenuModel]
}

// NewMenuRepository is the constructor for menuRepository.
func NewMenuRepository(db *gorm.DB) repository.MenuRepository {
	return &menuRepository{
		lifecycleTable: newLifecycleTable[model.MenuModel](db, repository.ErrMenuNotFound, true),
	}
}

// Create persists a new menu at version 1.
func (repo *menuRepository) Create(ctx context.Context, menu *entity.Menu) error {
	if err := ensureID(&menu.ID); err != nil {
		return err
	}

	menu.Version = 1
	menuM := fromMenuDomain(menu)
	if err := repo.db.WithContext(ctx).Create(menuM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create menu")
	}

	menu.CreatedAt = menuM.CreatedAt
	menu.UpdatedAt = menuM.UpdatedAt

	return nil
}

// FindByID retrieves a menu by id under the given scoping.
func (repo *menuRepository) FindByID(ctx context.Context, id uuid.UUID, opts repository.QueryOptions) (*entity.Menu, error) {
	menuM, err := repo.first(ctx, id, opts)
	if err != nil {
		return nil, err
	}

	return toMenuDomain(menuM), nil
}

// List lists the menus of a restaurant, optionally narrowed to one category.
func (repo *menuRepository) List(ctx context.Context, filter repository.MenuFilter) ([]*entity.Menu, error) {
	q := repo.scoped(ctx, filter.QueryOptions).Where("restaurant_id = ?", filter.RestaurantID)
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}

	var menuModels []*model.MenuModel
	if err := q.Order("name ASC").Find(&menuModels).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list menus")
	}

	menus := make([]*entity.Menu, 0, len(menuModels))
	for _, menuM := range menuModels {
		menus = append(menus, toMenuDomain(menuM))
	}

	return menus, nil
}

// Update writes the descriptive fields only when the stored version still equals expectedVersion.
func (repo *menuRepository) Update(ctx context.Context, menu *entity.Menu, expectedVersion int) error {
	result := repo.scoped(ctx, repository.QueryOptions{}).
		Where("id = ? AND version = ?", menu.ID, expectedVersion).
		Updates(map[string]any{
			"name":        menu.Name,
			"description": menu.Description,
			"price_cents": menu.PriceCents,
			"category_id": menu.CategoryID,
			"version":     gorm.Expr("version + ?", 1),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update menu")
	}

	if result.RowsAffected == 0 {
		// Tell a missing row apart from a stale version.
		exists, err := repo.count(ctx, repository.QueryOptions{}, "id = ?", menu.ID)
		if err != nil {
			return err
		}
		if exists == 0 {
			return repository.ErrMenuNotFound
		}

		return repository.ErrVersionConflict
	}

	menu.Version = expectedVersion + 1

	return nil
}

// CountByRestaurant counts menus of a restaurant under the given scoping.
func (repo *menuRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, opts repository.QueryOptions) (int64, error) {
	return repo.count(ctx, opts, "restaurant_id = ?", restaurantID)
}

// CountByCategory counts menus of a category under the given scoping.
func (repo *menuRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID, opts repository.QueryOptions) (int64, error) {
	return repo.count(ctx, opts, "category_id = ?", categoryID)
}

// PurgeInactiveByRestaurant removes the soft-deleted menu rows of a restaurant.
func (repo *menuRepository) PurgeInactiveByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	return repo.purgeInactive(ctx, "restaurant_id = ?", restaurantID)
}

// PurgeInactiveByCategory removes the soft-deleted menus of a category.
func (repo *menuRepository) PurgeInactiveByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return repo.purgeInactive(ctx, "category_id = ?", categoryID)
}

// --- Mapper Functions ---

func toMenuDomain(data *model.MenuModel) *entity.Menu {
	if data == nil {
		return nil
	}

	return &entity.Menu{
		ID:           data.ID,
		RestaurantID: data.RestaurantID,
		CategoryID:   data.CategoryID,
		Name:         data.Name,
		Description:  data.Description,
		PriceCents:   data.PriceCents,
		Version:      data.Version,
		Lifecycle:    toLifecycleDomain(data.LifecycleColumns),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromMenuDomain(data *entity.Menu) *model.MenuModel {
	if data == nil {
		return nil
	}

	return &model.MenuModel{
		ID:               data.ID,
		RestaurantID:     data.RestaurantID,
		CategoryID:       data.CategoryID,
		Name:             data.Name,
		Description:      data.Description,
		PriceCents:       data.PriceCents,
		Version:          data.Version,
		LifecycleColumns: fromLifecycleDomain(data.Lifecycle),
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
