package impl

import (
	"context"
	"log/slog"
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
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// menuService implements the MenuUsecase interface.
type menuService struct {
	txManager      repository.TransactionManager
	restaurantRepo repository.RestaurantRepository
	menuRepo       repository.MenuRepository
	guard          *policy.Guard
	ownership      *OwnershipGuard
	auditor        service.AuditRecorder
	logger         *slog.Logger
	now            func() time.Time
}

// MenuServiceParams holds dependencies for MenuService, injected by Fx.
type MenuServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	RestaurantRepo repository.RestaurantRepository
	MenuRepo       repository.MenuRepository
	Guard          *policy.Guard
	Ownership      *OwnershipGuard
	Auditor        service.AuditRecorder
	Logger         *slog.Logger
}

// NewMenuService is the constructor for menuService.
func NewMenuService(params MenuServiceParams) usecase.MenuUsecase {
	return &menuService{
		txManager:      params.TxManager,
		restaurantRepo: params.RestaurantRepo,
		menuRepo:       params.MenuRepo,
		guard:          params.Guard,
		ownership:      params.Ownership,
		auditor:        params.Auditor,
		logger:         params.Logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (srv *menuService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create adds a draft menu to an active restaurant managed by the caller.
func (srv *menuService) Create(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, input usecase.CreateMenuInput) (*entity.Menu, error) {
	if err := srv.guard.Authorize(p, policy.ActionCreate, policy.ResourceMenu); err != nil {
		return nil, err
	}

	menu := &entity.Menu{
		RestaurantID: restaurantID,
		CategoryID:   input.CategoryID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		Lifecycle:    entity.NewLifecycle(entity.StatusDraft),
	}
	if err := validateMenu(menu); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Menu, error) {
		if _, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceRestaurant, restaurantID, repository.QueryOptions{}); err != nil {
			return nil, err
		}
		if err := checkMenuCategory(ctx, repos, menu); err != nil {
			return nil, err
		}

		if err := repos.NewMenuRepository().Create(ctx, menu); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeMenu, menu.ID, entity.AuditActionCreate, nil, snapshot(menu),
		))

		return menu, nil
	})
}

// Get returns an active menu. Unpublished menus are only visible to those managing the restaurant.
func (srv *menuService) Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Menu, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceMenu); err != nil {
		return nil, err
	}

	menu, err := srv.menuRepo.FindByID(ctx, id, repository.QueryOptions{})
	if err != nil {
		return nil, translateError(err)
	}

	_, managed, err := browsableRestaurant(ctx, srv.restaurantRepo, p, menu.RestaurantID)
	if err != nil || (!managed && !menu.IsPublic()) {
		return nil, errors.WithStack(domainerrors.ErrMenuNotFound)
	}

	return menu, nil
}

// List returns the menus of a restaurant, optionally narrowed to a category.
func (srv *menuService) List(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, input usecase.ListMenusInput) ([]*entity.Menu, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceMenu); err != nil {
		return nil, err
	}

	_, managed, err := browsableRestaurant(ctx, srv.restaurantRepo, p, restaurantID)
	if err != nil {
		return nil, err
	}
	if input.IncludeInactive && !managed {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	menus, err := srv.menuRepo.List(ctx, repository.MenuFilter{
		QueryOptions: repository.QueryOptions{IncludeInactive: input.IncludeInactive},
		RestaurantID: restaurantID,
		CategoryID:   input.CategoryID,
	})
	if err != nil {
		return nil, translateError(err)
	}
	if managed {
		return menus, nil
	}

	public := make([]*entity.Menu, 0, len(menus))
	for _, m := range menus {
		if m.IsPublic() {
			public = append(public, m)
		}
	}

	return public, nil
}

// Update writes the descriptive fields when the caller still holds the current version.
func (srv *menuService) Update(ctx context.Context, p *entity.Principal, id uuid.UUID, input usecase.UpdateMenuInput) (*entity.Menu, error) {
	if err := srv.guard.Authorize(p, policy.ActionUpdate, policy.ResourceMenu); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Menu, error) {
		if _, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceMenu, id, repository.QueryOptions{}); err != nil {
			return nil, err
		}

		menuRepo := repos.NewMenuRepository()
		menu, err := menuRepo.FindByID(ctx, id, repository.QueryOptions{})
		if err != nil {
			return nil, translateError(err)
		}
		if menu.Version != input.ExpectedVersion {
			return nil, errors.WithStack(domainerrors.ErrVersionConflict)
		}
		before := snapshot(menu)

		if input.CategoryID != nil {
			categoryID := *input.CategoryID
			menu.CategoryID = &categoryID
		}
		if input.Name != nil {
			menu.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			menu.Description = *input.Description
		}
		if input.PriceCents != nil {
			menu.PriceCents = *input.PriceCents
		}
		if err := validateMenu(menu); err != nil {
			return nil, err
		}
		if input.CategoryID != nil {
			if err := checkMenuCategory(ctx, repos, menu); err != nil {
				return nil, err
			}
		}

		// The stored row may still move between the read above and this write.
		if err := menuRepo.Update(ctx, menu, input.ExpectedVersion); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeMenu, menu.ID, entity.AuditActionUpdate, before, snapshot(menu),
		))

		return menu, nil
	})
}

// ChangeStatus publishes or unpublishes a menu. The blocked state belongs to platform operators.
func (srv *menuService) ChangeStatus(ctx context.Context, p *entity.Principal, id uuid.UUID, status entity.Status) (*entity.Menu, error) {
	if err := srv.guard.Authorize(p, policy.ActionChangeStatus, policy.ResourceMenu); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, errors.WithStack(domainerrors.ErrInvalidStatus.WithDetails(string(status)))
	}

	return srv.transition(ctx, p, id, repository.QueryOptions{}, entity.AuditActionStatusChange, func(m *entity.Menu) (bool, error) {
		if err := checkStatusTransition(p, m.Status, status); err != nil {
			return false, err
		}

		return m.SetStatus(status), nil
	})
}

// SoftDelete hides a menu from default reads.
func (srv *menuService) SoftDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	if err := srv.guard.Authorize(p, policy.ActionDelete, policy.ResourceMenu); err != nil {
		return err
	}

	_, err := srv.transition(ctx, p, id, repository.QueryOptions{IncludeInactive: true}, entity.AuditActionDelete, func(m *entity.Menu) (bool, error) {
		return m.SoftDelete(p.ID, srv.now()), nil
	})

	return err
}

// Restore reactivates a soft-deleted menu as a draft.
func (srv *menuService) Restore(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Menu, error) {
	if err := srv.guard.Authorize(p, policy.ActionRestore, policy.ResourceMenu); err != nil {
		return nil, err
	}

	return srv.transition(ctx, p, id, repository.QueryOptions{IncludeInactive: true}, entity.AuditActionUpdate, func(m *entity.Menu) (bool, error) {
		return m.Restore(p.ID, srv.now()), nil
	})
}

// transition applies a lifecycle change under ownership. Lifecycle writes bump the version.
func (srv *menuService) transition(
	ctx context.Context,
	p *entity.Principal,
	id uuid.UUID,
	opts repository.QueryOptions,
	action entity.AuditAction,
	apply func(*entity.Menu) (bool, error),
) (*entity.Menu, error) {
	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Menu, error) {
		if _, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceMenu, id, opts); err != nil {
			return nil, err
		}

		menuRepo := repos.NewMenuRepository()
		menu, err := menuRepo.FindByID(ctx, id, opts)
		if err != nil {
			return nil, translateError(err)
		}

		before := snapshot(menu)
		expected := menu.Lifecycle
		changed, err := apply(menu)
		if err != nil {
			return nil, err
		}
		if !changed {
			return menu, nil
		}
		change := repository.LifecycleChange{ID: menu.ID, Expected: expected, State: menu.Lifecycle, Version: menu.Version}
		if err := menuRepo.SaveLifecycle(ctx, change); err != nil {
			return nil, translateError(err)
		}
		menu.Version++

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeMenu, menu.ID, action, before, snapshot(menu),
		))

		return menu, nil
	})
}

// HardDelete removes a menu permanently.
func (srv *menuService) HardDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	if err := srv.guard.Authorize(p, policy.ActionHardDelete, policy.ResourceMenu); err != nil {
		return err
	}

	return srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		menuRepo := repos.NewMenuRepository()
		menu, err := menuRepo.FindByID(ctx, id, repository.QueryOptions{IncludeInactive: true})
		if err != nil {
			return translateError(err)
		}

		if err := menuRepo.HardDelete(ctx, menu.ID); err != nil {
			return translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeMenu, menu.ID, entity.AuditActionDelete, snapshot(menu), nil,
		))
		srv.log(ctx).Info("Menu hard deleted", slog.String("menuID", menu.ID.String()))

		return nil
	})
}

func validateMenu(m *entity.Menu) error {
	if m.Name == "" {
		return errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("name is required"))
	}
	if m.PriceCents < 0 {
		return errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("price_cents must not be negative"))
	}

	return nil
}

// checkMenuCategory requires the category of a menu to be active and of the same restaurant.
func checkMenuCategory(ctx context.Context, repos repository.RepositoryFactory, m *entity.Menu) error {
	if m.CategoryID == nil {
		return nil
	}

	category, err := repos.NewCategoryRepository().FindByID(ctx, *m.CategoryID, repository.QueryOptions{})
	if err != nil {
		return translateError(err)
	}
	if category.RestaurantID != m.RestaurantID {
		return errors.WithStack(domainerrors.ErrCategoryNotFound)
	}

	return nil
}
