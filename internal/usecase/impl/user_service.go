package impl

import (
	"context"
	"log/slog"

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

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	guard     *policy.Guard
	auditor   service.AuditRecorder
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Guard     *policy.Guard
	Auditor   service.AuditRecorder
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		guard:     params.Guard,
		auditor:   params.Auditor,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Me returns the stored account of the principal.
func (srv *userService) Me(ctx context.Context, p *entity.Principal) (*usecase.Profile, error) {
	if err := srv.guard.Authorize(p, policy.ActionReadOwn, policy.ResourceUser); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, translateError(err)
	}

	return &usecase.Profile{User: user, Capabilities: srv.guard.Capabilities(p)}, nil
}

// AssignRole changes the role of a user and keeps the ownership pointer consistent with it:
// a store manager points at the restaurant it manages, an owning admin keeps its restaurant
// and every other role holds no pointer. An admin still owning a restaurant cannot be moved
// to another role until the restaurant has been reassigned.
func (srv *userService) AssignRole(
	ctx context.Context,
	p *entity.Principal,
	userID uuid.UUID,
	input usecase.AssignRoleInput,
) (*entity.User, error) {
	if err := srv.guard.Authorize(p, policy.ActionAssignRole, policy.ResourceUser); err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, errors.WithStack(domainerrors.ErrInvalidRole.WithDetails(string(input.Role)))
	}
	if input.Role == entity.RoleStoreManager && input.RestaurantID == nil {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("restaurant_id is required for storeManager"))
	}
	if userID == p.ID {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("cannot change your own role"))
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.User, error) {
		userRepo := repos.NewUserRepository()
		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, translateError(err)
		}
		before := snapshot(user)

		owned, err := ownedRestaurant(ctx, repos, user)
		if err != nil {
			return nil, err
		}
		if owned != nil && input.Role != entity.RoleAdmin {
			return nil, errors.WithStack(domainerrors.ErrConflict.WithDetails("restaurant ownership must be reassigned first"))
		}

		switch {
		case input.Role == entity.RoleStoreManager:
			if _, err := repos.NewRestaurantRepository().FindByID(ctx, *input.RestaurantID, repository.QueryOptions{}); err != nil {
				return nil, translateError(err)
			}
			restaurantID := *input.RestaurantID
			user.OwnedRestaurantID = &restaurantID
		case owned != nil:
			user.OwnedRestaurantID = &owned.ID
		default:
			user.OwnedRestaurantID = nil
		}
		user.Role = input.Role

		if err := userRepo.Update(ctx, user); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeUser, user.ID, entity.AuditActionUpdate, before, snapshot(user),
		))
		srv.log(ctx).Info("Role assigned", slog.String("userID", user.ID.String()), slog.String("role", user.Role.String()))

		return user, nil
	})
}

// SetActive deactivates or reactivates a user. Users are never deleted.
func (srv *userService) SetActive(ctx context.Context, p *entity.Principal, userID uuid.UUID, active bool) (*entity.User, error) {
	if err := srv.guard.Authorize(p, policy.ActionSetActive, policy.ResourceUser); err != nil {
		return nil, err
	}
	if userID == p.ID {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("cannot change your own active state"))
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.User, error) {
		userRepo := repos.NewUserRepository()
		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, translateError(err)
		}
		if user.IsActive == active {
			return user, nil
		}

		before := snapshot(user)
		user.IsActive = active
		if err := userRepo.Update(ctx, user); err != nil {
			return nil, translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeUser, user.ID, entity.AuditActionUpdate, before, snapshot(user),
		))

		return user, nil
	})
}

// ownedRestaurant returns the restaurant the user owns as admin, or nil when the
// ownership pointer is empty or only names a managed restaurant.
func ownedRestaurant(ctx context.Context, repos repository.RepositoryFactory, user *entity.User) (*entity.Restaurant, error) {
	if user.OwnedRestaurantID == nil {
		return nil, nil
	}

	restaurant, err := repos.NewRestaurantRepository().FindByID(ctx, *user.OwnedRestaurantID, repository.QueryOptions{IncludeInactive: true})
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	if restaurant.OwnerID != user.ID {
		return nil, nil
	}

	return restaurant, nil
}
