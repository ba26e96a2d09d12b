package impl

import (
	"context"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RatingAggregator keeps the derived rating summary of a restaurant in step with its reviews.
type RatingAggregator interface {
	// Recompute rebuilds the summary from the active reviews using the repositories of
	// the caller's transaction. An error must abort that transaction.
	Recompute(ctx context.Context, repos repository.RepositoryFactory, restaurantID uuid.UUID) error
}

type ratingAggregator struct{}

// NewRatingAggregator is the constructor for the rating aggregator.
func NewRatingAggregator() RatingAggregator {
	return &ratingAggregator{}
}

// Recompute folds every active rating into a count and a mean rounded to two decimals.
// Review status is ignored: only IsActive decides whether a rating counts. The restaurant
// row is locked before the ratings are read, so a concurrent writer waits and then reads
// the committed reviews instead of overwriting the summary with a stale count.
func (a *ratingAggregator) Recompute(ctx context.Context, repos repository.RepositoryFactory, restaurantID uuid.UUID) error {
	if _, err := repos.NewRestaurantRepository().LockForUpdate(ctx, restaurantID, repository.QueryOptions{IncludeInactive: true}); err != nil {
		return errors.Wrap(translateError(err), "failed to lock restaurant")
	}

	ratings, err := repos.NewReviewRepository().ListActiveRatings(ctx, restaurantID)
	if err != nil {
		return errors.Wrap(err, "failed to list active ratings")
	}

	summary := entity.SummarizeRatings(ratings)
	if err := repos.NewRestaurantRepository().UpdateRatingSummary(ctx, restaurantID, summary); err != nil {
		return errors.Wrap(translateError(err), "failed to store rating summary")
	}

	return nil
}
