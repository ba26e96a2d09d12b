package main

import (
	"context"
	"log/slog"
	"os"

	"eatery/config"
	"eatery/internal/delivery"
	"eatery/internal/delivery/api"
	"eatery/internal/delivery/api/middleware"
	"eatery/internal/delivery/api/router/handler"
	"eatery/internal/delivery/janitor"
	"eatery/internal/domain/policy"
	"eatery/internal/domain/service"
	"eatery/internal/infra/audit"
	"eatery/internal/infra/auth"
	"eatery/internal/infra/idempotency"
	logs "eatery/internal/infra/log"
	"eatery/internal/infra/persistence/postgres"
	"eatery/internal/infra/pubsub"
	"eatery/internal/infra/qrcode"
	"eatery/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		pubsub.Module,
		idempotency.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewRestaurantRepository,
			postgres.NewCategoryRepository,
			postgres.NewMenuRepository,
			postgres.NewReviewRepository,
			postgres.NewAuditRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			audit.NewRecorder,
			newQRCodeService,
			newGuard,
			impl.NewOwnershipGuard,
			impl.NewRatingAggregator,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

// newGuard builds the permission guard over the built-in role table
func newGuard() *policy.Guard {
	return policy.NewGuard(policy.DefaultTable())
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewUserService,
			impl.NewRestaurantService,
			impl.NewCategoryService,
			impl.NewMenuService,
			impl.NewReviewService,
			impl.NewAuditService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewIdempotencyMiddleware,
			middleware.NewPermissionMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewRestaurantHandler,
			handler.NewCategoryHandler,
			handler.NewMenuHandler,
			handler.NewReviewHandler,
			handler.NewAuditHandler,
			handler.NewHealthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				janitor.New,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
