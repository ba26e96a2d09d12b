package impl

import (
	"context"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/policy"
	"eatery/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// OwnershipGuard decides whether a principal may act on a specific resource.
// Categories, menus and reviews are owned through their restaurant.
type OwnershipGuard struct{}

// NewOwnershipGuard is the constructor for OwnershipGuard.
func NewOwnershipGuard() *OwnershipGuard {
	return &OwnershipGuard{}
}

// Authorize loads the owning restaurant of the resource and checks it against the principal.
// opts scopes the lookup of the resource itself; the parent restaurant of a child resource
// is always resolved, active or not, so owners keep access to children of a deleted restaurant.
// A missing resource is NotFound and a foreign one a Forbidden carrying no resource details.
func (g *OwnershipGuard) Authorize(
	ctx context.Context,
	repos repository.RepositoryFactory,
	p *entity.Principal,
	kind policy.Resource,
	id uuid.UUID,
	opts repository.QueryOptions,
) (*entity.Restaurant, error) {
	if p == nil {
		return nil, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	restaurant, err := g.owningRestaurant(ctx, repos, kind, id, opts)
	if err != nil {
		return nil, err
	}

	if !manages(p, restaurant) {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	return restaurant, nil
}

func (g *OwnershipGuard) owningRestaurant(
	ctx context.Context,
	repos repository.RepositoryFactory,
	kind policy.Resource,
	id uuid.UUID,
	opts repository.QueryOptions,
) (*entity.Restaurant, error) {
	if id == uuid.Nil {
		return nil, errors.WithStack(notFoundFor(kind))
	}

	var restaurantID uuid.UUID
	switch kind {
	case policy.ResourceRestaurant:
		restaurant, err := repos.NewRestaurantRepository().FindByID(ctx, id, opts)
		if err != nil {
			return nil, translateError(err)
		}

		return restaurant, nil
	case policy.ResourceCategory:
		category, err := repos.NewCategoryRepository().FindByID(ctx, id, opts)
		if err != nil {
			return nil, translateError(err)
		}
		restaurantID = category.RestaurantID
	case policy.ResourceMenu:
		menu, err := repos.NewMenuRepository().FindByID(ctx, id, opts)
		if err != nil {
			return nil, translateError(err)
		}
		restaurantID = menu.RestaurantID
	case policy.ResourceReview:
		review, err := repos.NewReviewRepository().FindByID(ctx, id, opts)
		if err != nil {
			return nil, translateError(err)
		}
		restaurantID = review.RestaurantID
	default:
		return nil, errors.Errorf("resource %q has no owner", kind)
	}

	restaurant, err := repos.NewRestaurantRepository().FindByID(ctx, restaurantID, repository.QueryOptions{IncludeInactive: true})
	if err != nil {
		return nil, translateError(err)
	}

	return restaurant, nil
}

// manages reports whether p may manage the restaurant: platform operators always,
// otherwise the owning admin or a principal whose ownership pointer names it.
func manages(p *entity.Principal, restaurant *entity.Restaurant) bool {
	if p == nil || restaurant == nil {
		return false
	}
	if p.IsSuperAdmin() {
		return true
	}

	return restaurant.OwnerID == p.ID || p.OwnsRestaurant(restaurant.ID)
}

func notFoundFor(kind policy.Resource) *domainerrors.BaseError {
	switch kind {
	case policy.ResourceRestaurant:
		return domainerrors.ErrRestaurantNotFound
	case policy.ResourceCategory:
		return domainerrors.ErrCategoryNotFound
	case policy.ResourceMenu:
		return domainerrors.ErrMenuNotFound
	case policy.ResourceReview:
		return domainerrors.ErrReviewNotFound
	case policy.ResourceUser:
		return domainerrors.ErrUserNotFound
	default:
		return domainerrors.ErrNotFound
	}
}

// browsableRestaurant loads a restaurant for reading its content. Content of a restaurant that
// is not public is only reachable by those managing it. The second result reports whether p
// manages the restaurant.
func browsableRestaurant(
	ctx context.Context,
	repo repository.RestaurantRepository,
	p *entity.Principal,
	restaurantID uuid.UUID,
) (*entity.Restaurant, bool, error) {
	restaurant, err := repo.FindByID(ctx, restaurantID, repository.QueryOptions{IncludeInactive: true})
	if err != nil {
		return nil, false, translateError(err)
	}

	managed := manages(p, restaurant)
	if !managed && !restaurant.IsPublic() {
		return nil, false, errors.WithStack(domainerrors.ErrRestaurantNotFound)
	}

	return restaurant, managed, nil
}
