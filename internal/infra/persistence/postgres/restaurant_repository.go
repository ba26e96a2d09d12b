package postgres

import (
	"context"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// restaurantRepository implements the repository.RestaurantRepository interface.
type restaurantRepository struct {
	lifecycleTable[model.RestaurantModel]
}

// NewRestaurantRepository is the constructor for restaurantRepository.
func NewRestaurantRepository(db *gorm.DB) repository.RestaurantRepository {
	return &restaurantRepository{
		lifecycleTable: newLifecycleTable[model.RestaurantModel](db, repository.ErrRestaurantNotFound, false),
	}
}

// Create persists a new restaurant.
func (repo *restaurantRepository) Create(ctx context.Context, restaurant *entity.Restaurant) error {
	if err := ensureID(&restaurant.ID); err != nil {
		return err
	}

	restaurantM := fromRestaurantDomain(restaurant)
	if err := repo.db.WithContext(ctx).Create(restaurantM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create restaurant")
	}

	restaurant.CreatedAt = restaurantM.CreatedAt
	restaurant.UpdatedAt = restaurantM.UpdatedAt

	return nil
}

// FindByID retrieves a restaurant by id under the given scoping.
func (repo *restaurantRepository) FindByID(ctx context.Context, id uuid.UUID, opts repository.QueryOptions) (*entity.Restaurant, error) {
	restaurantM, err := repo.first(ctx, id, opts)
	if err != nil {
		return nil, err
	}

	return toRestaurantDomain(restaurantM), nil
}

// LockForUpdate reads the restaurant with SELECT ... FOR UPDATE. The SQLite dialector drops
// the clause.
func (repo *restaurantRepository) LockForUpdate(ctx context.Context, id uuid.UUID, opts repository.QueryOptions) (*entity.Restaurant, error) {
	var restaurantM model.RestaurantModel
	err := repo.scoped(ctx, opts).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&restaurantM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRestaurantNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to lock restaurant")
	}

	return toRestaurantDomain(&restaurantM), nil
}

// List returns matching restaurants newest first. A zero Pagination returns every match.
func (repo *restaurantRepository) List(ctx context.Context, filter repository.RestaurantFilter) ([]*entity.Restaurant, int64, error) {
	q := repo.scoped(ctx, filter.QueryOptions)

	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if b := filter.Bound; b != nil {
		q = q.Where("latitude BETWEEN ? AND ?", b.Min.Lat(), b.Max.Lat()).
			Where("longitude BETWEEN ? AND ?", b.Min.Lon(), b.Max.Lon())
	}

	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count restaurants")
	}

	page := base.Order("created_at DESC").Order("id DESC")
	if filter.Page != 0 || filter.PageSize != 0 {
		p := filter.Pagination.Normalize()
		page = page.Offset(p.Offset()).Limit(p.PageSize)
	}

	var restaurantModels []*model.RestaurantModel
	if err := page.Find(&restaurantModels).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list restaurants")
	}

	restaurants := make([]*entity.Restaurant, 0, len(restaurantModels))
	for _, restaurantM := range restaurantModels {
		restaurants = append(restaurants, toRestaurantDomain(restaurantM))
	}

	return restaurants, total, nil
}

// Update writes the descriptive fields of an active restaurant.
func (repo *restaurantRepository) Update(ctx context.Context, restaurant *entity.Restaurant) error {
	return repo.updateActive(ctx, restaurant.ID, map[string]any{
		"name":        restaurant.Name,
		"description": restaurant.Description,
		"address":     restaurant.Address,
		"phone":       restaurant.Phone,
		"latitude":    restaurant.Location.Lat(),
		"longitude":   restaurant.Location.Lon(),
	})
}

// UpdateOwner rewrites the owner pointer.
func (repo *restaurantRepository) UpdateOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	return repo.update(ctx, id, map[string]any{"owner_id": ownerID})
}

// UpdateRatingSummary stores the derived aggregate. Inactive restaurants are updated too.
func (repo *restaurantRepository) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary entity.RatingSummary) error {
	return repo.update(ctx, id, map[string]any{
		"rating_average": summary.Average,
		"rating_count":   summary.Count,
	})
}

func (repo *restaurantRepository) updateActive(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := repo.scoped(ctx, repository.QueryOptions{}).Where("id = ?", id).Updates(updates)

	return repo.checkUpdate(result)
}

func (repo *restaurantRepository) update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := repo.db.WithContext(ctx).Model(&model.RestaurantModel{}).Where("id = ?", id).Updates(updates)

	return repo.checkUpdate(result)
}

func (repo *restaurantRepository) checkUpdate(result *gorm.DB) error {
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update restaurant")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRestaurantNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toRestaurantDomain converts a GORM RestaurantModel to a domain Restaurant entity.
func toRestaurantDomain(data *model.RestaurantModel) *entity.Restaurant {
	if data == nil {
		return nil
	}

	return &entity.Restaurant{
		ID:          data.ID,
		OwnerID:     data.OwnerID,
		Name:        data.Name,
		Description: data.Description,
		Address:     data.Address,
		Phone:       data.Phone,
		Location:    orb.Point{data.Longitude, data.Latitude},
		Rating: entity.RatingSummary{
			Count:   data.RatingCount,
			Average: data.RatingAverage,
		},
		Lifecycle: toLifecycleDomain(data.LifecycleColumns),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromRestaurantDomain converts a domain Restaurant entity to a GORM RestaurantModel.
func fromRestaurantDomain(data *entity.Restaurant) *model.RestaurantModel {
	if data == nil {
		return nil
	}

	return &model.RestaurantModel{
		ID:               data.ID,
		OwnerID:          data.OwnerID,
		Name:             data.Name,
		Description:      data.Description,
		Address:          data.Address,
		Phone:            data.Phone,
		Latitude:         data.Location.Lat(),
		Longitude:        data.Location.Lon(),
		RatingAverage:    data.Rating.Average,
		RatingCount:      data.Rating.Count,
		LifecycleColumns: fromLifecycleDomain(data.Lifecycle),
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
