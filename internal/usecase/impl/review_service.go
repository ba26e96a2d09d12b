package impl

import (
	"context"
	"log/slog"
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

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager      repository.TransactionManager
	restaurantRepo repository.RestaurantRepository
	reviewRepo     repository.ReviewRepository
	guard          *policy.Guard
	ownership      *OwnershipGuard
	aggregator     RatingAggregator
	auditor        service.AuditRecorder
	logger         *slog.Logger
	now            func() time.Time
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	RestaurantRepo repository.RestaurantRepository
	ReviewRepo     repository.ReviewRepository
	Guard          *policy.Guard
	Ownership      *OwnershipGuard
	Aggregator     RatingAggregator
	Auditor        service.AuditRecorder
	Logger         *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:      params.TxManager,
		restaurantRepo: params.RestaurantRepo,
		reviewRepo:     params.ReviewRepo,
		guard:          params.Guard,
		ownership:      params.Ownership,
		aggregator:     params.Aggregator,
		auditor:        params.Auditor,
		logger:         params.Logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create adds the principal's review of a public restaurant. A user reviews a restaurant once.
func (srv *reviewService) Create(
	ctx context.Context,
	p *entity.Principal,
	restaurantID uuid.UUID,
	input usecase.CreateReviewInput,
) (*entity.Review, error) {
	if err := srv.guard.Authorize(p, policy.ActionCreate, policy.ResourceReview); err != nil {
		return nil, err
	}
	if !entity.ValidRating(input.Rating) {
		return nil, errors.WithStack(domainerrors.ErrInvalidRating)
	}

	review := &entity.Review{
		RestaurantID: restaurantID,
		UserID:       p.ID,
		Rating:       input.Rating,
		Comment:      input.Comment,
		Lifecycle:    entity.NewLifecycle(entity.StatusPublished),
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Review, error) {
		restaurant, err := repos.NewRestaurantRepository().LockForUpdate(ctx, restaurantID, repository.QueryOptions{})
		if err != nil {
			return nil, translateError(err)
		}
		if !restaurant.IsPublic() {
			return nil, errors.WithStack(domainerrors.ErrRestaurantNotPublic)
		}

		if err := repos.NewReviewRepository().Create(ctx, review); err != nil {
			return nil, translateError(err)
		}
		if err := srv.aggregator.Recompute(ctx, repos, restaurantID); err != nil {
			return nil, err
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeReview, review.ID, entity.AuditActionCreate, nil, snapshot(review),
		))

		return review, nil
	})
}

// Get returns an active review of a restaurant the caller may browse.
func (srv *reviewService) Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Review, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceReview); err != nil {
		return nil, err
	}

	review, err := srv.reviewRepo.FindByID(ctx, id, repository.QueryOptions{})
	if err != nil {
		return nil, translateError(err)
	}
	if _, _, err := browsableRestaurant(ctx, srv.restaurantRepo, p, review.RestaurantID); err != nil {
		return nil, errors.WithStack(domainerrors.ErrReviewNotFound)
	}

	return review, nil
}

// List pages through the reviews of a restaurant newest first. Hidden reviews are
// included only for those managing the restaurant.
func (srv *reviewService) List(
	ctx context.Context,
	p *entity.Principal,
	restaurantID uuid.UUID,
	input usecase.ListReviewsInput,
) (*usecase.ReviewPage, error) {
	if err := srv.guard.Authorize(p, policy.ActionRead, policy.ResourceReview); err != nil {
		return nil, err
	}

	_, managed, err := browsableRestaurant(ctx, srv.restaurantRepo, p, restaurantID)
	if err != nil {
		return nil, err
	}
	if input.IncludeInactive && !managed {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	page := repository.Pagination{Page: input.Page, PageSize: input.PageSize}.Normalize()
	items, total, err := srv.reviewRepo.ListByRestaurant(ctx, restaurantID, repository.QueryOptions{IncludeInactive: input.IncludeInactive}, page)
	if err != nil {
		return nil, translateError(err)
	}

	return &usecase.ReviewPage{Items: items, Total: total, Page: page.Page, PageSize: page.PageSize}, nil
}

// Update changes rating or comment of the principal's own active review.
func (srv *reviewService) Update(ctx context.Context, p *entity.Principal, id uuid.UUID, input usecase.UpdateReviewInput) (*entity.Review, error) {
	if err := srv.guard.Authorize(p, policy.ActionUpdateOwn, policy.ResourceReview); err != nil {
		return nil, err
	}
	if input.Rating != nil && !entity.ValidRating(*input.Rating) {
		return nil, errors.WithStack(domainerrors.ErrInvalidRating)
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Review, error) {
		reviewRepo := repos.NewReviewRepository()
		review, err := ownReview(ctx, reviewRepo, p, id, repository.QueryOptions{})
		if err != nil {
			return nil, err
		}
		if err := lockRestaurant(ctx, repos, review.RestaurantID); err != nil {
			return nil, err
		}
		before := snapshot(review)

		if input.Rating != nil {
			review.Rating = *input.Rating
		}
		if input.Comment != nil {
			review.Comment = *input.Comment
		}

		if err := reviewRepo.Update(ctx, review); err != nil {
			return nil, translateError(err)
		}
		if err := srv.aggregator.Recompute(ctx, repos, review.RestaurantID); err != nil {
			return nil, err
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			p, entity.EntityTypeReview, review.ID, entity.AuditActionUpdate, before, snapshot(review),
		))

		return review, nil
	})
}

// Delete soft-deletes the principal's own review. Deleting it again is a no-op.
func (srv *reviewService) Delete(ctx context.Context, p *entity.Principal, id uuid.UUID) error {
	if err := srv.guard.Authorize(p, policy.ActionDeleteOwn, policy.ResourceReview); err != nil {
		return err
	}

	return srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		review, err := ownReview(ctx, repos.NewReviewRepository(), p, id, repository.QueryOptions{IncludeInactive: true})
		if err != nil {
			return err
		}
		if err := lockRestaurant(ctx, repos, review.RestaurantID); err != nil {
			return err
		}

		_, err = srv.applyLifecycle(ctx, repos, p, review, entity.AuditActionDelete, func(l *entity.Lifecycle) bool {
			return l.SoftDelete(p.ID, srv.now())
		})

		return err
	})
}

// Moderate hides (active=false) or reinstates (active=true) a review of a restaurant
// the principal manages.
func (srv *reviewService) Moderate(ctx context.Context, p *entity.Principal, id uuid.UUID, active bool) (*entity.Review, error) {
	if err := srv.guard.Authorize(p, policy.ActionModerate, policy.ResourceReview); err != nil {
		return nil, err
	}

	return repository.RunInTransaction(ctx, srv.txManager, func(repos repository.RepositoryFactory) (*entity.Review, error) {
		opts := repository.QueryOptions{IncludeInactive: true}
		if _, err := srv.ownership.Authorize(ctx, repos, p, policy.ResourceReview, id, opts); err != nil {
			return nil, err
		}

		review, err := repos.NewReviewRepository().FindByID(ctx, id, opts)
		if err != nil {
			return nil, translateError(err)
		}
		if err := lockRestaurant(ctx, repos, review.RestaurantID); err != nil {
			return nil, err
		}

		if active {
			return srv.applyLifecycle(ctx, repos, p, review, entity.AuditActionUpdate, func(l *entity.Lifecycle) bool {
				return l.Restore(p.ID, srv.now())
			})
		}

		return srv.applyLifecycle(ctx, repos, p, review, entity.AuditActionDelete, func(l *entity.Lifecycle) bool {
			return l.SoftDelete(p.ID, srv.now())
		})
	})
}

// lockRestaurant holds the restaurant row until commit so concurrent review writers of the
// same restaurant recompute its summary one after another.
func lockRestaurant(ctx context.Context, repos repository.RepositoryFactory, restaurantID uuid.UUID) error {
	_, err := repos.NewRestaurantRepository().LockForUpdate(ctx, restaurantID, repository.QueryOptions{IncludeInactive: true})

	return translateError(err)
}

// applyLifecycle persists a lifecycle change of a review, recomputes the rating summary and
// audits, all on the caller's transaction. Nothing is written when the state is unchanged.
func (srv *reviewService) applyLifecycle(
	ctx context.Context,
	repos repository.RepositoryFactory,
	p *entity.Principal,
	review *entity.Review,
	action entity.AuditAction,
	apply func(*entity.Lifecycle) bool,
) (*entity.Review, error) {
	before := snapshot(review)
	expected := review.Lifecycle
	if !apply(&review.Lifecycle) {
		return review, nil
	}

	change := repository.LifecycleChange{ID: review.ID, Expected: expected, State: review.Lifecycle}
	if err := repos.NewReviewRepository().SaveLifecycle(ctx, change); err != nil {
		return nil, translateError(err)
	}
	if err := srv.aggregator.Recompute(ctx, repos, review.RestaurantID); err != nil {
		return nil, err
	}

	srv.auditor.Record(ctx, repos, newAuditEntry(
		p, entity.EntityTypeReview, review.ID, action, before, snapshot(review),
	))
	srv.log(ctx).Debug("Review lifecycle changed",
		slog.String("reviewID", review.ID.String()),
		slog.Bool("active", review.IsActive),
	)

	return review, nil
}

// ownReview loads a review written by p. Platform operators may act on any review.
func ownReview(
	ctx context.Context,
	repo repository.ReviewRepository,
	p *entity.Principal,
	id uuid.UUID,
	opts repository.QueryOptions,
) (*entity.Review, error) {
	review, err := repo.FindByID(ctx, id, opts)
	if err != nil {
		return nil, translateError(err)
	}
	if review.UserID != p.ID && !p.IsSuperAdmin() {
		return nil, errors.WithStack(domainerrors.ErrForbidden)
	}

	return review, nil
}
