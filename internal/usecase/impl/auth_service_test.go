package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/infra/auth"
	mockRepo "eatery/internal/mocks/repository"
	mockSvc "eatery/internal/mocks/service"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Gr8t!Noodles"

// recordingAuditor keeps entries instead of persisting them.
type recordingAuditor struct {
	mu      sync.Mutex
	entries []*entity.AuditEntry
}

func (r *recordingAuditor) Record(_ context.Context, _ repository.RepositoryFactory, entry *entity.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingAuditor) last(t *testing.T) *entity.AuditEntry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.entries)

	return r.entries[len(r.entries)-1]
}

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	tokenService *mockSvc.MockTokenService
	auditor      *recordingAuditor
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	tokenService := mockSvc.NewMockTokenService(t)
	auditor := &recordingAuditor{}

	service := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenService,
		Auditor:      auditor,
		Logger:       newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      service,
		txManager:    txManager,
		userRepo:     userRepo,
		tokenService: tokenService,
		auditor:      auditor,
	}
}

// storedUser returns an account whose hash matches testPassword.
func storedUser(t *testing.T, active bool) *entity.User {
	t.Helper()

	hash, err := auth.NewBcryptHasherWithCost(bcrypt.MinCost).Hash(testPassword)
	require.NoError(t, err)

	return &entity.User{
		ID:           uuid.New(),
		Email:        "diner@example.com",
		PasswordHash: hash,
		Role:         entity.RoleUser,
		IsActive:     active,
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(_ context.Context, user *entity.User) {
					user.ID = uuid.New()
				}).
				Return(nil)

			return fn(mockFactory)
		})

	user, err := fx.service.Signup(ctx, usecase.SignupInput{Name: " Dana ", Email: " Dana@Example.com", Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, "Dana", user.Name)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	entry := fx.auditor.last(t)
	assert.Equal(t, entity.AuditActionCreate, entry.Action)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, user.ID, *entry.ActorID)
	assert.NotContains(t, entry.After, "password_hash")
}

func TestAuthService_Signup_WeakPassword(t *testing.T) {
	fx := createTestAuthService(t)

	_, err := fx.service.Signup(context.Background(), usecase.SignupInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordTooShort)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.txManager.EXPECT().
		Execute(ctx, mock.Anything).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)
			mockUserRepo.EXPECT().Create(ctx, mock.Anything).Return(repository.ErrDuplicateEmail)

			return fn(mockFactory)
		})

	_, err := fx.service.Signup(ctx, usecase.SignupInput{Email: "taken@example.com", Password: testPassword})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	assert.Empty(t, fx.auditor.entries)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := storedUser(t, true)
	expiresAt := time.Now().Add(time.Hour)

	fx.userRepo.EXPECT().FindByEmail(ctx, "diner@example.com").Return(user, nil)
	fx.tokenService.EXPECT().GenerateAccessToken(user.ID, "user").Return("signed.token", expiresAt, nil)

	output, err := fx.service.Login(ctx, usecase.LoginInput{Email: "DINER@example.com ", Password: testPassword})
	require.NoError(t, err)

	assert.Equal(t, "signed.token", output.AccessToken)
	assert.Equal(t, expiresAt, output.ExpiresAt)
	assert.Equal(t, user.ID, output.User.ID)
	assert.Equal(t, entity.AuditActionLogin, fx.auditor.last(t).Action)
}

func TestAuthService_Login_Failures(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(fx authServiceFixtures, user *entity.User)
		password   string
		wantErr    error
		wantReason string
		wantActor  bool
	}{
		{
			name: "unknown email",
			setup: func(fx authServiceFixtures, _ *entity.User) {
				fx.userRepo.EXPECT().FindByEmail(mock.Anything, mock.Anything).Return(nil, repository.ErrUserNotFound)
			},
			password:   testPassword,
			wantErr:    domainerrors.ErrInvalidCredentials,
			wantReason: loginFailureUnknownEmail,
		},
		{
			name: "wrong password",
			setup: func(fx authServiceFixtures, user *entity.User) {
				fx.userRepo.EXPECT().FindByEmail(mock.Anything, mock.Anything).Return(user, nil)
			},
			password:   "Wr0ng!Password",
			wantErr:    domainerrors.ErrInvalidCredentials,
			wantReason: loginFailureInvalidPassword,
		},
		{
			name: "deactivated account",
			setup: func(fx authServiceFixtures, user *entity.User) {
				user.IsActive = false
				fx.userRepo.EXPECT().FindByEmail(mock.Anything, mock.Anything).Return(user, nil)
			},
			password:   testPassword,
			wantErr:    domainerrors.ErrAccountInactive,
			wantReason: loginFailureInactive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			user := storedUser(t, true)
			tc.setup(fx, user)

			_, err := fx.service.Login(context.Background(), usecase.LoginInput{Email: user.Email, Password: tc.password})
			require.ErrorIs(t, err, tc.wantErr)

			entry := fx.auditor.last(t)
			assert.Equal(t, entity.AuditActionLoginFailed, entry.Action)
			assert.Nil(t, entry.ActorID)
			assert.Equal(t, tc.wantReason, entry.After["reason"])
		})
	}
}

func TestAuthService_Login_TokenFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := storedUser(t, true)

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.tokenService.EXPECT().GenerateAccessToken(user.ID, "user").Return("", time.Time{}, errors.New("signing key missing"))

	_, err := fx.service.Login(ctx, usecase.LoginInput{Email: user.Email, Password: testPassword})
	assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
	assert.Equal(t, domainerrors.KindInternal, domainerrors.KindOf(err))
}

func TestAuthService_Logout(t *testing.T) {
	fx := createTestAuthService(t)

	assert.ErrorIs(t, fx.service.Logout(context.Background(), nil), domainerrors.ErrUnauthenticated)

	p := &entity.Principal{ID: uuid.New(), Role: entity.RoleUser, IsActive: true}
	require.NoError(t, fx.service.Logout(context.Background(), p))

	entry := fx.auditor.last(t)
	assert.Equal(t, entity.AuditActionLogout, entry.Action)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, p.ID, *entry.ActorID)
}
