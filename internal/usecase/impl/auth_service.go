// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/domain/service"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Reasons recorded with LOGIN_FAILED entries.
const (
	loginFailureUnknownEmail    = "unknown_email"
	loginFailureInvalidPassword = "invalid_password"
	loginFailureInactive        = "inactive"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	auditor      service.AuditRecorder
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Auditor      service.AuditRecorder
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		auditor:      params.Auditor,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a diner account. New accounts always start with the user role.
func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, errors.WithStack(domainerrors.ErrInvalidInput.WithDetails("email is required"))
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Role:         entity.RoleUser,
		IsActive:     true,
	}

	err = srv.txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		if err := repos.NewUserRepository().Create(ctx, user); err != nil {
			return translateError(err)
		}

		srv.auditor.Record(ctx, repos, newAuditEntry(
			user.Principal(), entity.EntityTypeUser, user.ID, entity.AuditActionCreate, nil, snapshot(user),
		))

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("User signed up", slog.String("userID", user.ID.String()))

	return user, nil
}

// Login verifies the credentials and issues an access token. Every failure is audited
// without an actor and surfaces as the same invalid-credentials error, except for
// deactivated accounts.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.recordLoginFailure(ctx, uuid.Nil, email, loginFailureUnknownEmail)

			return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.recordLoginFailure(ctx, user.ID, email, loginFailureInvalidPassword)

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	if !user.IsActive {
		srv.recordLoginFailure(ctx, user.ID, email, loginFailureInactive)

		return nil, errors.WithStack(domainerrors.ErrAccountInactive)
	}

	token, expiresAt, err := srv.tokenService.GenerateAccessToken(user.ID, user.Role.String())
	if err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.String("userID", user.ID.String()), slog.Any("error", err))

		return nil, errors.WithStack(domainerrors.ErrTokenIssueFailed)
	}

	srv.auditor.Record(ctx, nil, newAuditEntry(
		user.Principal(), entity.EntityTypeUser, user.ID, entity.AuditActionLogin, nil, nil,
	))

	return &usecase.LoginOutput{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Logout records the event. Access tokens are stateless and simply expire.
func (srv *authService) Logout(ctx context.Context, p *entity.Principal) error {
	if p == nil {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	srv.auditor.Record(ctx, nil, newAuditEntry(
		p, entity.EntityTypeUser, p.ID, entity.AuditActionLogout, nil, nil,
	))

	return nil
}

func (srv *authService) recordLoginFailure(ctx context.Context, userID uuid.UUID, email, reason string) {
	srv.log(ctx).Info("Login failed", slog.String("email", email), slog.String("reason", reason))

	srv.auditor.Record(ctx, nil, newAuditEntry(
		nil, entity.EntityTypeUser, userID, entity.AuditActionLoginFailed,
		nil, map[string]any{"email": email, "reason": reason},
	))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
