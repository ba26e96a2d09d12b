package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/policy"
	"eatery/internal/domain/repository"
	"eatery/internal/domain/service"
	"eatery/internal/infra/audit"
	"eatery/internal/infra/persistence/postgres"
	"eatery/internal/infra/persistence/sqlitetest"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capturingPublisher keeps every published audit event in memory.
type capturingPublisher struct {
	mu     sync.Mutex
	events []*entity.AuditEvent
}

func (p *capturingPublisher) PublishAuditEvent(_ context.Context, event *entity.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) actions() []entity.AuditAction {
	p.mu.Lock()
	defer p.mu.Unlock()

	actions := make([]entity.AuditAction, 0, len(p.events))
	for _, e := range p.events {
		actions = append(actions, e.Action)
	}

	return actions
}

// testEnv wires every service against a throwaway SQLite database.
type testEnv struct {
	db        *gorm.DB
	txManager repository.TransactionManager
	auditRepo repository.AuditRepository
	publisher *capturingPublisher
	auditor   service.AuditRecorder
	guard     *policy.Guard
	ownership *OwnershipGuard

	users       usecase.UserUsecase
	restaurants usecase.RestaurantUsecase
	categories  usecase.CategoryUsecase
	menus       usecase.MenuUsecase
	reviews     usecase.ReviewUsecase
	audits      usecase.AuditUsecase
}

type envOption func(*ReviewServiceParams)

// withAggregator replaces the rating aggregator used by the review service.
func withAggregator(a RatingAggregator) envOption {
	return func(p *ReviewServiceParams) { p.Aggregator = a }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db := sqlitetest.New(t)
	logger := newDiscardLogger()
	env := &testEnv{
		db:        db,
		txManager: postgres.NewTransactionManager(db, logger),
		auditRepo: postgres.NewAuditRepository(db),
		publisher: &capturingPublisher{},
		guard:     policy.NewGuard(policy.DefaultTable()),
		ownership: NewOwnershipGuard(),
	}
	env.auditor = audit.NewRecorder(audit.RecorderParams{
		Logger:    logger,
		Repo:      env.auditRepo,
		Publisher: env.publisher,
	})

	restaurantRepo := postgres.NewRestaurantRepository(db)

	env.users = NewUserService(UserServiceParams{
		TxManager: env.txManager,
		UserRepo:  postgres.NewUserRepository(db),
		Guard:     env.guard,
		Auditor:   env.auditor,
		Logger:    logger,
	})
	env.restaurants = NewRestaurantService(RestaurantServiceParams{
		TxManager:      env.txManager,
		RestaurantRepo: restaurantRepo,
		Guard:          env.guard,
		Ownership:      env.ownership,
		Auditor:        env.auditor,
		QRCode:         &staticQRCode{},
		Logger:         logger,
	})
	env.categories = NewCategoryService(CategoryServiceParams{
		TxManager:      env.txManager,
		RestaurantRepo: restaurantRepo,
		CategoryRepo:   postgres.NewCategoryRepository(db),
		Guard:          env.guard,
		Ownership:      env.ownership,
		Auditor:        env.auditor,
		Logger:         logger,
	})
	env.menus = NewMenuService(MenuServiceParams{
		TxManager:      env.txManager,
		RestaurantRepo: restaurantRepo,
		MenuRepo:       postgres.NewMenuRepository(db),
		Guard:          env.guard,
		Ownership:      env.ownership,
		Auditor:        env.auditor,
		Logger:         logger,
	})

	reviewParams := ReviewServiceParams{
		TxManager:      env.txManager,
		RestaurantRepo: restaurantRepo,
		ReviewRepo:     postgres.NewReviewRepository(db),
		Guard:          env.guard,
		Ownership:      env.ownership,
		Aggregator:     NewRatingAggregator(),
		Auditor:        env.auditor,
		Logger:         logger,
	}
	for _, opt := range opts {
		opt(&reviewParams)
	}
	env.reviews = NewReviewService(reviewParams)

	env.audits = NewAuditService(AuditServiceParams{
		AuditRepo: env.auditRepo,
		Guard:     env.guard,
		Logger:    logger,
	})

	return env
}

// seedUser stores an active account with the given role and returns its principal.
func (env *testEnv) seedUser(t *testing.T, role entity.Role) *entity.Principal {
	t.Helper()

	user := &entity.User{
		Email:        uuid.NewString() + "@example.com",
		Name:         string(role),
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, postgres.NewUserRepository(env.db).Create(context.Background(), user))

	return user.Principal()
}

// reload re-reads the principal from storage, as the auth middleware does per request.
func (env *testEnv) reload(t *testing.T, p *entity.Principal) *entity.Principal {
	t.Helper()

	user, err := postgres.NewUserRepository(env.db).FindByID(context.Background(), p.ID)
	require.NoError(t, err)

	return user.Principal()
}

// seedPublishedRestaurant creates a restaurant for a fresh admin and publishes it.
// It returns the refreshed admin principal and the restaurant.
func (env *testEnv) seedPublishedRestaurant(t *testing.T) (*entity.Principal, *entity.Restaurant) {
	t.Helper()
	ctx := context.Background()

	admin := env.seedUser(t, entity.RoleAdmin)
	restaurant, err := env.restaurants.Create(ctx, admin, usecase.CreateRestaurantInput{
		Name:      "Noodle Bar",
		Address:   "1 Main St",
		Latitude:  25.0330,
		Longitude: 121.5654,
	})
	require.NoError(t, err)

	admin = env.reload(t, admin)
	restaurant, err = env.restaurants.ChangeStatus(ctx, admin, restaurant.ID, entity.StatusPublished)
	require.NoError(t, err)

	return admin, restaurant
}

func (env *testEnv) restaurantRating(t *testing.T, id uuid.UUID) entity.RatingSummary {
	t.Helper()

	restaurant, err := postgres.NewRestaurantRepository(env.db).FindByID(context.Background(), id, repository.QueryOptions{IncludeInactive: true})
	require.NoError(t, err)

	return restaurant.Rating
}

type staticQRCode struct{}

func (s *staticQRCode) GenerateRestaurantQR(restaurantID uuid.UUID) ([]byte, error) {
	return []byte(restaurantID.String()), nil
}

func (s *staticQRCode) ParseRestaurantQR(qrData string) (uuid.UUID, error) {
	return uuid.Parse(qrData)
}
