package usecase

import (
	"context"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Categories ---

// CreateCategoryInput defines a new category of a restaurant.
type CreateCategoryInput struct {
	Name        string
	Description string
	Position    int
}

// UpdateCategoryInput carries the fields to change. Nil fields are left untouched.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Position    *int
}

// CategoryUsecase defines category management.
type CategoryUsecase interface {
	Create(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, input CreateCategoryInput) (*entity.Category, error)
	Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Category, error)
	List(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, includeInactive bool) ([]*entity.Category, error)
	Update(ctx context.Context, p *entity.Principal, id uuid.UUID, input UpdateCategoryInput) (*entity.Category, error)
	SoftDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error
	Restore(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Category, error)
	HardDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error
}

// --- Menus ---

// CreateMenuInput defines a new menu of a restaurant.
type CreateMenuInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Description string
	PriceCents  int64
}

// UpdateMenuInput carries the fields to change together with the version the
// caller last read. Nil fields are left untouched.
type UpdateMenuInput struct {
	ExpectedVersion int
	CategoryID      *uuid.UUID
	Name            *string
	Description     *string
	PriceCents      *int64
}

// ListMenusInput narrows a menu listing of a restaurant.
type ListMenusInput struct {
	CategoryID      *uuid.UUID
	IncludeInactive bool
}

// MenuUsecase defines menu management.
type MenuUsecase interface {
	Create(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, input CreateMenuInput) (*entity.Menu, error)
	Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Menu, error)
	List(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, input ListMenusInput) ([]*entity.Menu, error)
	// Update fails with a conflict when the stored version differs from input.ExpectedVersion.
	Update(ctx context.Context, p *entity.Principal, id uuid.UUID, input UpdateMenuInput) (*entity.Menu, error)
	ChangeStatus(ctx context.Context, p *entity.Principal, id uuid.UUID, status entity.Status) (*entity.Menu, error)
	SoftDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error
	Restore(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Menu, error)
	HardDelete(ctx context.Context, p *entity.Principal, id uuid.UUID) error
}
