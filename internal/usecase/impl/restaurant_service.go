package impl

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/policy"
	"eatery/internal/domain/repository"
	"eatery/internal/domain/service"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// restaurantService implements the RestaurantUsecase interface.
type restaurantService struct {
	txManager      repository.TransactionManager
	restaurantRepo repository.RestaurantRepository
	guard          *policy.Guard
	ownership      *OwnershipGuard
	auditor        service.AuditRecorder
	qrcode         service.QRCodeService
	logger         *slog.Logger
	now            func() time.Time
}

// RestaurantServiceParams holds dependencies for RestaurantService, injected by Fx.
type RestaurantServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	RestaurantRepo repository.RestaurantRepository
	Guard          *policy.Guard
	Ownership      *OwnershipGuard
	Auditor        service.AuditRecorder
	QRCode         service.QRCodeService
	Logger         *slog.Logger
}

// NewRestaurantService is the constructor for restaurantService.
func NewRestaurantService(params RestaurantServiceParams) usecase.RestaurantUsecase {
	return &restaurantService{
		txManager:      params.TxManager,
		restaurantRepo: params.RestaurantRepo,
		guard:          params.Guard,
		ownership:      params.Ownership,
		auditor:        params.Auditor,
		qrcode:         params.QRCode,
		logger:         params.Logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (srv *restaurantService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create registers a restaurant owned by the caller, or by input.OwnerID when a platform
// operator creates it on behalf of an admin. An admin owns at most one restaurant.
func (srv *restaurantService) Create(ctx context.Context, p *entity.Principal, input usecase.CreateRestaurantInput) (*entity.Restaurant, error) {
	if err := srv.guard.Authorize(p, policy.ActionCreate, policy.ResourceRestaurant); err != nil {
		return nil, err
	}

	ownerID := p.ID
	if input.OwnerID != nil && *input.OwnerID != p.ID {
		if !p.IsSuperAdmin() {
			return nil, errors.WithStack(domainerrors.ErrForbidden)
		}
		ownerID = *input.OwnerID
	}

	restaurant := &entity.Restaurant{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Address:     strings.TrimSpace(input.Address),
		Phone:       strings.TrimSpace(input.Phone),
		Location:    orb.Point{input.Longitude, input.Latitude},
		Lifecycle:   entity.NewLifecycle(entity.StatusDraft),
	}
	if err := validateRestaurant(restaurant); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Restaurant, error) {
		userRepo := repos.NewUserRepository()
		owner, err := userRepo.FindByID(ctx, ownerID)
		if err != nil {
			return nil, translateError(err)
		}
		if !owner.IsActive || (owner.Role != entity.RoleAdmin && owner.Role != entity.RoleSuperAdmin) {
			return nil, errors.WithStack(domainerrors.ErrInvalidRole.WithDetails("owner must be an active admin"))
		}
		if owner.Role == entity.RoleAdmin && owner.OwnedRestaurantID != nil {
			return nil, errors.WithStack(domainerrors.ErrRestaurantAlreadyOwned)
		}

		if err := repos.NewRestaurantRepository().Create(ctx, restaurant); err != nil {
			return nil, translateError(err)
		}

		if owner.Role == entity.RoleAdmin {
			owner.OwnedRestaurantID = &restaurant.ID
			if err := userRepo.Update(ctx, owner); err != nil {
				return nil, translateError(err)
			}
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeRestaurant, restaurant.ID, entity.AuditActionCreate, nil, snapshot(restaurant),
		))
		srv.log(ctx).Info("Restaurant created", slog.String("restaurantID", restaurant.ID.String()))

		return restaurant, nil
	})
}

// Get returns a restaurant. Drafts, blocked and soft-deleted restaurants are only
// visible to those managing them; everyone else gets NotFound.
func (srv *restaurantService) Get(ctx context.Context, p *entity.Principal, id uuid.UUID, includeInactive bool) (*entity.Restaurant, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceRestaurant); err != nil {
		return nil, err
	}

	restaurant, err := srv.restaurantRepo.FindByID(ctx, id, repository.QueryOptions{IncludeInactive: includeInactive})
	if err != nil {
		return nil, translateError(err)
	}
	if !restaurant.IsPublic() && !manages(p, restaurant) {
		return nil, errors.WithStack(domainerrors.ErrRestaurantNotFound)
	}

	return restaurant, nil
}

// List pages through restaurants. Only platform operators may include soft-deleted rows or
// see unpublished ones; other callers always get published restaurants.
func (srv *restaurantService) List(ctx context.Context, p *entity.Principal, input usecase.ListRestaurantsInput) (*usecase.RestaurantPage, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceRestaurant); err != nil {
		return nil, err
	}
	if input.IncludeInactive {
		if err := srv.guard.Authorize(p, policy.ActionReadInactive, policy.ResourceRestaurant); err != nil {
			return nil, err
		}
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, errors.WithStack(domainerrors.ErrInvalidStatus.WithDetails(string(*input.Status)))
	}

	page := repository.Pagination{Page: input.Page, PageSize: input.PageSize}.Normalize()
	filter := repository.RestaurantFilter{
		QueryOptions: repository.QueryOptions{IncludeInactive: input.IncludeInactive},
		Status:       input.Status,
		OwnerID:      input.OwnerID,
	}
	if !p.IsSuperAdmin() {
		published := entity.StatusPublished
		filter.Status = &published
	}

	if input.Near == nil {
		filter.Pagination = page
		items, total, err := srv.restaurantRepo.List(ctx, filter)
		if err != nil {
			return nil, translateError(err)
		}

		return &usecase.RestaurantPage{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
	}

	return srv.listNear(ctx, filter, *input.Near, page)
}

// listNear narrows the query to the bounding box of the circle, drops everything outside
// the radius and pages the remainder ordered by distance.
func (srv *restaurantService) listNear(
	ctx context.Context,
	filter repository.RestaurantFilter,
	near usecase.NearFilter,
	page repository.Pagination,
) (*usecase.RestaurantPage, error) {
	if near.RadiusKm <= 0 || !validCoordinates(near.Latitude, near.Longitude) {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("near requires valid coordinates and a positive radius"))
	}

	center := orb.Point{near.Longitude, near.Latitude}
	radius := near.RadiusKm * 1000
	bound := geo.NewBoundAroundPoint(center, radius)
	filter.Bound = &bound

	candidates, _, err := srv.restaurantRepo.List(ctx, filter)
	if err != nil {
		return nil, translateError(err)
	}

	type ranked struct {
		restaurant *entity.Restaurant
		distance   float64
	}
	within := make([]ranked, 0, len(candidates))
	for _, r := range candidates {
		if d := geo.Distance(center, r.Location); d <= radius {
			within = append(within, ranked{restaurant: r, distance: d})
		}
	}
	slices.SortStableFunc(within, func(a, b ranked) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		default:
			return 0
		}
	})

	start := min(page.Offset(), len(within))
	end := min(start+page.PageSize, len(within))
	items := make([]*entity.Restaurant, 0, end-start)
	for _, r := range within[start:end] {
		items = append(items, r.restaurant)
	}

	return &usecase.RestaurantPage{Items: items, Total: int64(len(within)), Page: page.Page, PageSize: page.PageSize}, nil
}

// Update changes the descriptive fields of an active restaurant.
func (srv *restaurantService) Update(
	ctx context.Context,
	p *entity.Principal,
	id uuid.UUID,
	input usecase.UpdateRestaurantInput,
) (*entity.Restaurant, error) {
	if err := srv.guard.Authorize(p, policy.ActionUpdate, policy.ResourceRestaurant); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Restaurant, error) {
		restaurant, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceRestaurant, id, repository.QueryOptions{})
		if err != nil {
			return nil, err
		}
		before := snapshot(restaurant)

		if input.Name != nil {
			restaurant.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			restaurant.Description = *input.Description
		}
		if input.Address != nil {
			restaurant.Address = strings.TrimSpace(*input.Address)
		}
		if input.Phone != nil {
			restaurant.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Latitude != nil {
			restaurant.Location[1] = *input.Latitude
		}
		if input.Longitude != nil {
			restaurant.Location[0] = *input.Longitude
		}
		if err := validateRestaurant(restaurant); err != nil {
			return nil, err
		}

		if err := repos.NewRestaurantRepository().Update(ctx, restaurant); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeRestaurant, restaurant.ID, entity.AuditActionUpdate, before, snapshot(restaurant),
		))

		return restaurant, nil
	})
}

// ChangeStatus publishes or unpublishes a restaurant. Blocking, and lifting a block,
// is reserved to platform operators.
func (srv *restaurantService) ChangeStatus(ctx context.Context, p *entity.Principal, id uuid.UUID, status entity.Status) (*entity.Restaurant, error) {
	if err := srv.guard.Authorize(p, policy.ActionChangeStatus, policy.ResourceRestaurant); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, errors.WithStack(domainerrors.ErrInvalidStatus.WithDetails(string(status)))
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Restaurant, error) {
		restaurant, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceRestaurant, id, repository.QueryOptions{})
		if err != nil {
			return nil, err
		}
		if err := checkStatusTransition(p, restaurant.Status, status); err != nil {
			return nil, err
		}

		before := snapshot(restaurant)
		expected := restaurant.Lifecycle
		if !restaurant.SetStatus(status) {
			return restaurant, nil
		}
		change := repository.LifecycleChange{ID: restaurant.ID, Expected: expected, State: restaurant.Lifecycle}
		if err := repos.NewRestaurantRepository().SaveLifecycle(ctx, change); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeRestaurant, restaurant.ID, entity.AuditActionStatusChange, before, snapshot(restaurant),
		))

		return restaurant, nil
	})
}

// SoftDelete hides the restaurant from default reads. Children are left untouched and
// stay reachable for the owner. Deleting an already deleted restaurant is a no-op.
func (srv *restaurantService) SoftDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	if err := srv.guard.Authorize(p, policy.ActionDelete, policy.ResourceRestaurant); err != nil {
		return err
	}

	return srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		restaurant, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceRestaurant, id, repository.QueryOptions{IncludeInactive: true})
		if err != nil {
			return err
		}

		before := snapshot(restaurant)
		expected := restaurant.Lifecycle
		if !restaurant.SoftDelete(p.ID, srv.now()) {
			return nil
		}
		change := repository.LifecycleChange{ID: restaurant.ID, Expected: expected, State: restaurant.Lifecycle}
		if err := repos.NewRestaurantRepository().SaveLifecycle(ctx, change); err != nil {
			return translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeRestaurant, restaurant.ID, entity.AuditActionDelete, before, snapshot(restaurant),
		))

		return nil
	})
}

// Restore reactivates a soft-deleted restaurant as a draft.
func (srv *restaurantService) Restore(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Restaurant, error) {
	if err := srv.guard.Authorize(p, policy.ActionRestore, policy.ResourceRestaurant); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Restaurant, error) {
		restaurant, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceRestaurant, id, repository.QueryOptions{IncludeInactive: true})
		if err != nil {
			return nil, err
		}

		before := snapshot(restaurant)
		expected := restaurant.Lifecycle
		if !restaurant.Restore(p.ID, srv.now()) {
			return restaurant, nil
		}
		change := repository.LifecycleChange{ID: restaurant.ID, Expected: expected, State: restaurant.Lifecycle}
		if err := repos.NewRestaurantRepository().SaveLifecycle(ctx, change); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeRestaurant, restaurant.ID, entity.AuditActionUpdate, before, snapshot(restaurant),
		))

		return restaurant, nil
	})
}

// HardDelete removes a restaurant permanently. It refuses while active categories,
// menus or reviews remain and clears the owner's pointer.
func (srv *restaurantService) HardDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	if err := srv.guard.Authorize(p, policy.ActionHardDelete, policy.ResourceRestaurant); err != nil {
		return err
	}

	return srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		restaurantRepo := repos.NewRestaurantRepository()
		restaurant, err := restaurantRepo.FindByID(ctx, id, repository.QueryOptions{IncludeInactive: true})
		if err != nil {
			return translateError(err)
		}

		if err := ensureNoActiveChildren(ctx, repos, restaurant.ID); err != nil {
			return err
		}
		if err := purgeInactiveChildren(ctx, repos, restaurant.ID); err != nil {
			return err
		}

		if err := restaurantRepo.HardDelete(ctx, restaurant.ID); err != nil {
			return translateError(err)
		}

		if err := releaseOwnership(ctx, repos, restaurant.OwnerID, restaurant.ID); err != nil {
			return err
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeRestaurant, restaurant.ID, entity.AuditActionDelete, snapshot(restaurant), nil,
		))
		srv.log(ctx).Info("Restaurant hard deleted", slog.String("restaurantID", restaurant.ID.String()))

		return nil
	})
}

// ReassignOwner moves the restaurant to another active admin and rewrites the pointers on
// the restaurant, the previous owner and the new owner in one transaction.
func (srv *restaurantService) ReassignOwner(ctx context.Context, p *entity.Principal, id, newOwnerID uuid.UUID) (*entity.Restaurant, error) {
	if err := srv.guard.Authorize(p, policy.ActionReassignOwner, policy.ResourceRestaurant); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Restaurant, error) {
		restaurantRepo := repos.NewRestaurantRepository()
		userRepo := repos.NewUserRepository()

		restaurant, err := restaurantRepo.FindByID(ctx, id, repository.QueryOptions{IncludeInactive: true})
		if err != nil {
			return nil, translateError(err)
		}
		if restaurant.OwnerID == newOwnerID {
			return restaurant, nil
		}

		newOwner, err := userRepo.FindByID(ctx, newOwnerID)
		if err != nil {
			return nil, translateError(err)
		}
		if !newOwner.IsActive || newOwner.Role != entity.RoleAdmin {
			return nil, errors.WithStack(domainerrors.ErrInvalidRole.WithDetails("new owner must be an active admin"))
		}
		if newOwner.OwnedRestaurantID != nil && *newOwner.OwnedRestaurantID != restaurant.ID {
			return nil, errors.WithStack(domainerrors.ErrRestaurantAlreadyOwned)
		}

		before := snapshot(restaurant)
		previousOwnerID := restaurant.OwnerID

		if err := restaurantRepo.UpdateOwner(ctx, restaurant.ID, newOwner.ID); err != nil {
			return nil, translateError(err)
		}
		restaurant.OwnerID = newOwner.ID

		if err := releaseOwnership(ctx, repos, previousOwnerID, restaurant.ID); err != nil {
			return nil, err
		}

		newOwner.OwnedRestaurantID = &restaurant.ID
		if err := userRepo.Update(ctx, newOwner); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeRestaurant, restaurant.ID, entity.AuditActionUpdate, before, snapshot(restaurant),
		))
		srv.log(ctx).Info("Restaurant owner reassigned",
			slog.String("restaurantID", restaurant.ID.String()),
			slog.String("from", previousOwnerID.String()),
			slog.String("to", newOwner.ID.String()),
		)

		return restaurant, nil
	})
}

// QRCode renders the QR code of a restaurant visible to the caller.
func (srv *restaurantService) QRCode(ctx context.Context, p *entity.Principal, id uuid.UUID) ([]byte, error) {
	restaurant, err := srv.Get(ctx, p, id, false)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateRestaurantQR(restaurant.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate restaurant QR code")
	}

	return png, nil
}

// ResolveQR maps decoded QR content to a restaurant visible to the caller.
func (srv *restaurantService) ResolveQR(ctx context.Context, p *entity.Principal, content string) (*entity.Restaurant, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceRestaurant); err != nil {
		return nil, err
	}

	id, err := srv.qrcode.ParseRestaurantQR(content)
	if err != nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails(err.Error()))
	}

	return srv.Get(ctx, p, id, false)
}

// checkStatusTransition keeps everything touching the blocked state with platform operators.
func checkStatusTransition(p *entity.Principal, from, to entity.Status) error {
	if p.IsSuperAdmin() {
		return nil
	}
	if from == entity.StatusBlocked || to == entity.StatusBlocked {
		return errors.WithStack(domainerrors.ErrForbidden)
	}

	return nil
}

// ensureNoActiveChildren refuses a hard delete while the restaurant still has live content.
func ensureNoActiveChildren(ctx context.Context, repos repository.RepositoryFactory, restaurantID uuid.UUID) error {
	counters := []struct {
		name  string
		count func(context.Context, uuid.UUID, repository.QueryOptions) (int64, error)
	}{
		{"categories", repos.NewCategoryRepository().CountByRestaurant},
		{"menus", repos.NewMenuRepository().CountByRestaurant},
		{"reviews", repos.NewReviewRepository().CountByRestaurant},
	}

	for _, c := range counters {
		n, err := c.count(ctx, restaurantID, repository.QueryOptions{})
		if err != nil {
			return translateError(err)
		}
		if n > 0 {
			return errors.WithStack(domainerrors.ErrHasActiveChildren.WithDetails(c.name))
		}
	}

	return nil
}

// purgeInactiveChildren removes soft-deleted reviews, menus and categories so a hard deleted
// restaurant leaves no orphans behind.
func purgeInactiveChildren(ctx context.Context, repos repository.RepositoryFactory, restaurantID uuid.UUID) error {
	purges := []func(context.Context, uuid.UUID) (int64, error){
		repos.NewReviewRepository().PurgeInactiveByRestaurant,
		repos.NewMenuRepository().PurgeInactiveByRestaurant,
		repos.NewCategoryRepository().PurgeInactiveByRestaurant,
	}

	for _, purge := range purges {
		if _, err := purge(ctx, restaurantID); err != nil {
			return translateError(err)
		}
	}

	return nil
}

// releaseOwnership clears the ownership pointer of a former owner still naming the restaurant.
func releaseOwnership(ctx context.Context, repos repository.RepositoryFactory, ownerID, restaurantID uuid.UUID) error {
	userRepo := repos.NewUserRepository()

	owner, err := userRepo.FindByID(ctx, ownerID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return translateError(err)
	}
	if owner.OwnedRestaurantID == nil || *owner.OwnedRestaurantID != restaurantID {
		return nil
	}

	owner.OwnedRestaurantID = nil
	if err := userRepo.Update(ctx, owner); err != nil {
		return translateError(err)
	}

	return nil
}

func validateRestaurant(r *entity.Restaurant) error {
	if r.Name == "" {
		return errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("name is required"))
	}
	if !validCoordinates(r.Location.Lat(), r.Location.Lon()) {
		return errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("location is out of range"))
	}

	return nil
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}

	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
