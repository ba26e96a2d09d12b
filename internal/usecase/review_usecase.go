package usecase

import (
	"context"
	"time"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateReviewInput defines a diner's review.
type CreateReviewInput struct {
	Rating  int
	Comment string
}

// UpdateReviewInput carries the fields to change. Nil fields are left untouched.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ListReviewsInput narrows a review listing of a restaurant.
type ListReviewsInput struct {
	IncludeInactive bool
	Page            int
	PageSize        int
}

// ReviewPage is one page of reviews.
type ReviewPage struct {
	Items    []*entity.Review
	Total    int64
	Page     int
	PageSize int
}

// ReviewUsecase defines review operations. Every write recomputes the rating
// summary of the restaurant in the same transaction.
type ReviewUsecase interface {
	Create(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, input CreateReviewInput) (*entity.Review, error)
	Get(ctx context.Context, p *entity.Principal, id uuid.UUID) (*entity.Review, error)
	List(ctx context.Context, p *entity.Principal, restaurantID uuid.UUID, input ListReviewsInput) (*ReviewPage, error)
	// Update changes a review written by the principal.
	Update(ctx context.Context, p *entity.Principal, id uuid.UUID, input UpdateReviewInput) (*entity.Review, error)
	// Delete soft-deletes a review written by the principal.
	Delete(ctx context.Context, p *entity.Principal, id uuid.UUID) error
	// Moderate hides or reinstates a review of a restaurant the principal manages.
	Moderate(ctx context.Context, p *entity.Principal, id uuid.UUID, active bool) (*entity.Review, error)
}

// AuditQueryInput filters the audit trail. Zero values do not filter.
type AuditQueryInput struct {
	EntityType entity.EntityType
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	Action     entity.AuditAction
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

// AuditUsecase reads and maintains the audit trail.
type AuditUsecase interface {
	// Query returns matching entries newest first. Platform operators only.
	Query(ctx context.Context, p *entity.Principal, input AuditQueryInput) (*entity.AuditPage, error)
	// PurgeExpired removes entries past their retention and reports how many were deleted.
	PurgeExpired(ctx context.Context) (int64, error)
}
