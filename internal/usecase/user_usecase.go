// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/policy"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new diner account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// AssignRoleInput changes the role of a user. RestaurantID names the managed
// restaurant and is required when Role is storeManager.
type AssignRoleInput struct {
	Role         entity.Role
	RestaurantID *uuid.UUID
}

// --- Output DTOs ---

// LoginOutput returns the access token issued after a successful login.
type LoginOutput struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *entity.User
}

// Profile is the caller's account together with the capabilities of its role.
type Profile struct {
	User         *entity.User                       `json:"user"`
	Capabilities map[policy.Resource][]policy.Action `json:"capabilities"`
}

// AuthUsecase defines signup, login and logout.
type AuthUsecase interface {
	Signup(ctx context.Context, input SignupInput) (*entity.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Logout(ctx context.Context, p *entity.Principal) error
}

// UserUsecase defines account operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Me returns the stored account of the principal and what its role may do.
	Me(ctx context.Context, p *entity.Principal) (*Profile, error)
	// AssignRole changes the role of another user. Platform operators only.
	AssignRole(ctx context.Context, p *entity.Principal, userID uuid.UUID, input AssignRoleInput) (*entity.User, error)
	// SetActive deactivates or reactivates a user. Platform operators only.
	SetActive(ctx context.Context, p *entity.Principal, userID uuid.UUID, active bool) (*entity.User, error)
}
