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

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	txManager      repository.TransactionManager
	restaurantRepo repository.RestaurantRepository
	categoryRepo   repository.CategoryRepository
	guard          *policy.Guard
	ownership      *OwnershipGuard
	auditor        service.AuditRecorder
	logger         *slog.Logger
	now            func() time.Time
}

// CategoryServiceParams holds dependencies for CategoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	RestaurantRepo repository.RestaurantRepository
	CategoryRepo   repository.CategoryRepository
	Guard          *policy.Guard
	Ownership      *OwnershipGuard
	Auditor        service.AuditRecorder
	Logger         *slog.Logger
}

// NewCategoryService is the constructor for categoryService.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		txManager:      params.TxManager,
		restaurantRepo: params.RestaurantRepo,
		categoryRepo:   params.CategoryRepo,
		guard:          params.Guard,
		ownership:      params.Ownership,
		auditor:        params.Auditor,
		logger:         params.Logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create adds a category to an active restaurant managed by the caller.
// Categories have no publication workflow and start published.
func (srv *categoryService) Create(
	ctx context.Context,
	p *entity.Principal,
	restaurantID uuid.UUID,
	input usecase.CreateCategoryInput,
) (*entity.Category, error) {
	if err := srv.guard.Authorize(p, policy.ActionCreate, policy.ResourceCategory); err != nil {
		return nil, err
	}

	category := &entity.Category{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Position:     input.Position,
		Lifecycle:    entity.NewLifecycle(entity.StatusPublished),
	}
	if category.Name == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("name is required"))
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Category, error) {
		if _, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceRestaurant, restaurantID, repository.QueryOptions{}); err != nil {
			return nil, err
		}

		if err := repos.NewCategoryRepository().Create(ctx, category); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeCategory, category.ID, entity.AuditActionCreate, nil, snapshot(category),
		))

		return category, nil
	})
}

// Get returns an active category of a restaurant the caller may browse.
func (srv *categoryService) Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Category, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceCategory); err != nil {
		return nil, err
	}

	category, err := srv.categoryRepo.FindByID(ctx, id, repository.QueryOptions{})
	if err != nil {
		return nil, translateError(err)
	}
	if _, _, err := browsableRestaurant(ctx, srv.restaurantRepo, p, category.RestaurantID); err != nil {
		return nil, errors.WithStack(domainerrors.ErrCategoryNotFound)
	}

	return category, nil
}

// List returns the categories of a restaurant. Soft-deleted ones are included only for
// those managing the restaurant.
func (srv *categoryService) List(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, includeInactive bool) ([]*entity.Category, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceCategory); err != nil {
		return nil, err
	}

	_, managed, err := browsableRestaurant(ctx, srv.restaurantRepo, p, restaurantID)
	if err != nil {
		return nil, err
	}
	if includeInactive && !managed {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	categories, err := srv.categoryRepo.ListByRestaurant(ctx, restaurantID, repository.QueryOptions{IncludeInactive: includeInactive})
	if err != nil {
		return nil, translateError(err)
	}

	return categories, nil
}

// Update changes the descriptive fields of an active category.
func (srv *categoryService) Update(
	ctx context.Context,
	p *entity.Principal,
	id uuid.UUID,
	input usecase.UpdateCategoryInput,
) (*entity.Category, error) {
	if err := srv.guard.Authorize(p, policy.ActionUpdate, policy.ResourceCategory); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Category, error) {
		if _, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceCategory, id, repository.QueryOptions{}); err != nil {
			return nil, err
		}

		categoryRepo := repos.NewCategoryRepository()
		category, err := categoryRepo.FindByID(ctx, id, repository.QueryOptions{})
		if err != nil {
			return nil, translateError(err)
		}
		before := snapshot(category)

		if input.Name != nil {
			category.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			category.Description = *input.Description
		}
		if input.Position != nil {
			category.Position = *input.Position
		}
		if category.Name == "" {
			return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("name is required"))
		}

		if err := categoryRepo.Update(ctx, category); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeCategory, category.ID, entity.AuditActionUpdate, before, snapshot(category),
		))

		return category, nil
	})
}

// SoftDelete hides a category. Its menus keep their category pointer.
func (srv *categoryService) SoftDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	if err := srv.guard.Authorize(p, policy.ActionDelete, policy.ResourceCategory); err != nil {
		return err
	}

	_, err := srv.transition(ctx, p, id, entity.AuditActionDelete, func(l *entity.Lifecycle) bool {
		return l.SoftDelete(p.ID, srv.now())
	})

	return err
}

// Restore reactivates a soft-deleted category.
func (srv *categoryService) Restore(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Category, error) {
	if err := srv.guard.Authorize(p, policy.ActionRestore, policy.ResourceCategory); err != nil {
		return nil, err
	}

	return srv.transition(ctx, p, id, entity.AuditActionUpdate, func(l *entity.Lifecycle) bool {
		return l.Restore(p.ID, srv.now())
	})
}

// transition applies a lifecycle change under ownership and audits it when state changed.
func (srv *categoryService) transition(
	ctx context.Context,
	p *entity.Principal,
	id uuid.UUID,
	action entity.AuditAction,
	apply func(*entity.Lifecycle) bool,
) (*entity.Category, error) {
	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Category, error) {
		opts := repository.QueryOptions{IncludeInactive: true}
		if _, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceCategory, id, opts); err != nil {
			return nil, err
		}

		categoryRepo := repos.NewCategoryRepository()
		category, err := categoryRepo.FindByID(ctx, id, opts)
		if err != nil {
			return nil, translateError(err)
		}

		before := snapshot(category)
		expected := category.Lifecycle
		if !apply(&category.Lifecycle) {
			return category, nil
		}
		change := repository.LifecycleChange{ID: category.ID, Expected: expected, State: category.Lifecycle}
		if err := categoryRepo.SaveLifecycle(ctx, change); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeCategory, category.ID, action, before, snapshot(category),
		))

		return category, nil
	})
}

// HardDelete removes a category permanently. It refuses while active menus reference it.
func (srv *categoryService) HardDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	if err := srv.guard.Authorize(p, policy.ActionHardDelete, policy.ResourceCategory); err != nil {
		return err
	}

	return srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		categoryRepo := repos.NewCategoryRepository()
		category, err := categoryRepo.FindByID(ctx, id, repository.QueryOptions{IncludeInactive: true})
		if err != nil {
			return translateError(err)
		}

		menus, err := repos.NewMenuRepository().CountByCategory(ctx, category.ID, repository.QueryOptions{})
		if err != nil {
			return translateError(err)
		}
		if menus > 0 {
			return errors.WithStack(domainerrors.ErrHasActiveChildren.WithDetails("menus"))
		}
		if _, err := repos.NewMenuRepository().PurgeInactiveByCategory(ctx, category.ID); err != nil {
			return translateError(err)
		}

		if err := categoryRepo.HardDelete(ctx, category.ID); err != nil {
			return translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeCategory, category.ID, entity.AuditActionDelete, snapshot(category), nil,
		))
		srv.log(ctx).Info("Category hard deleted", slog.String("categoryID", category.ID.String()))

		return nil
	})
}
