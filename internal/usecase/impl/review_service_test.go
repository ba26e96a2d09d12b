package impl

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"
	"eatery/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingAggregator always fails, standing in for a broken summary write.
type failingAggregator struct{}

func (failingAggregator) Recompute(context.Context, repository.RepositoryFactory, uuid.UUID) error {
	return errors.New("summary store unavailable")
}

func intPtr(v int) *int { return &v }

func TestReviewService_RatingLifecycleScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin, restaurant := env.seedPublishedRestaurant(t)
	diner := env.seedUser(t, entity.RoleUser)

	review, err := env.reviews.Create(ctx, diner, restaurant.ID, usecase.CreateReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Count: 1, Average: 5}, env.restaurantRating(t, restaurant.ID))

	_, err = env.reviews.Create(ctx, diner, restaurant.ID, usecase.CreateReviewInput{Rating: 4})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateReview)
	assert.Equal(t, domainerrors.KindConflict, domainerrors.KindOf(err))

	_, err = env.reviews.Update(ctx, diner, review.ID, usecase.UpdateReviewInput{Rating: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, entity.RatingSummary{Count: 1, Average: 3}, env.restaurantRating(t, restaurant.ID))

	hidden, err := env.reviews.Moderate(ctx, admin, review.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)
	assert.Equal(t, entity.RatingSummary{}, env.restaurantRating(t, restaurant.ID))

	shown, err := env.reviews.Moderate(ctx, admin, review.ID, true)
	require.NoError(t, err)
	assert.True(t, shown.IsActive)
	assert.Equal(t, entity.RatingSummary{Count: 1, Average: 3}, env.restaurantRating(t, restaurant.ID))
}

func TestReviewService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedUser(t, entity.RoleAdmin)
	draft, err := env.restaurants.Create(ctx, admin, usecase.CreateRestaurantInput{Name: "Not yet"})
	require.NoError(t, err)
	diner := env.seedUser(t, entity.RoleUser)

	for _, rating := range []int{0, 6, -1} {
		_, err := env.reviews.Create(ctx, diner, draft.ID, usecase.CreateReviewInput{Rating: rating})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidRating, "rating %d", rating)
	}

	_, err = env.reviews.Create(ctx, diner, draft.ID, usecase.CreateReviewInput{Rating: 4})
	assert.ErrorIs(t, err, domainerrors.ErrRestaurantNotPublic)

	_, err = env.reviews.Create(ctx, diner, uuid.New(), usecase.CreateReviewInput{Rating: 4})
	assert.ErrorIs(t, err, domainerrors.ErrRestaurantNotFound)

	_, err = env.reviews.Create(ctx, env.reload(t, admin), draft.ID, usecase.CreateReviewInput{Rating: 4})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden, "admins do not write reviews")
}

func TestReviewService_FailedRecomputeRollsBackReview(t *testing.T) {
	env := newTestEnv(t, withAggregator(failingAggregator{}))
	ctx := context.Background()

	admin, restaurant := env.seedPublishedRestaurant(t)
	diner := env.seedUser(t, entity.RoleUser)
	published := len(env.publisher.actions())

	_, err := env.reviews.Create(ctx, diner, restaurant.ID, usecase.CreateReviewInput{Rating: 4})
	require.Error(t, err)

	page, err := env.reviews.List(ctx, admin, restaurant.ID, usecase.ListReviewsInput{IncludeInactive: true})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Equal(t, entity.RatingSummary{}, env.restaurantRating(t, restaurant.ID))

	entries, total, err := env.auditRepo.Query(ctx, repository.AuditFilter{EntityType: entity.EntityTypeReview})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
	assert.Len(t, env.publisher.actions(), published, "no event for a rolled back write")
}

func TestReviewService_SummaryMatchesActiveReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(42, 7))

	admin, restaurant := env.seedPublishedRestaurant(t)

	type tracked struct {
		id     uuid.UUID
		author *entity.Principal
		rating int
		active bool
	}
	var reviews []*tracked

	expected := func() entity.RatingSummary {
		sum, count := 0, 0
		for _, r := range reviews {
			if r.active {
				sum += r.rating
				count++
			}
		}
		if count == 0 {
			return entity.RatingSummary{}
		}

		return entity.RatingSummary{Count: count, Average: math.Round(float64(sum)/float64(count)*100) / 100}
	}

	for step := 0; step < 60; step++ {
		op := rng.IntN(4)
		if len(reviews) == 0 {
			op = 0
		}

		switch op {
		case 0:
			author := env.seedUser(t, entity.RoleUser)
			rating := rng.IntN(entity.MaxRating) + 1
			review, err := env.reviews.Create(ctx, author, restaurant.ID, usecase.CreateReviewInput{Rating: rating})
			require.NoError(t, err)
			reviews = append(reviews, &tracked{id: review.ID, author: author, rating: rating, active: true})
		case 1:
			r := reviews[rng.IntN(len(reviews))]
			if !r.active {
				continue
			}
			r.rating = rng.IntN(entity.MaxRating) + 1
			_, err := env.reviews.Update(ctx, r.author, r.id, usecase.UpdateReviewInput{Rating: intPtr(r.rating)})
			require.NoError(t, err)
		case 2:
			r := reviews[rng.IntN(len(reviews))]
			require.NoError(t, env.reviews.Delete(ctx, r.author, r.id))
			r.active = false
		case 3:
			r := reviews[rng.IntN(len(reviews))]
			_, err := env.reviews.Moderate(ctx, admin, r.id, true)
			require.NoError(t, err)
			r.active = true
		}

		require.Equal(t, expected(), env.restaurantRating(t, restaurant.ID), "step %d", step)
	}
}

func TestReviewService_UpdateRequiresAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, restaurant := env.seedPublishedRestaurant(t)
	author := env.seedUser(t, entity.RoleUser)
	other := env.seedUser(t, entity.RoleUser)

	review, err := env.reviews.Create(ctx, author, restaurant.ID, usecase.CreateReviewInput{Rating: 2})
	require.NoError(t, err)

	_, err = env.reviews.Update(ctx, other, review.ID, usecase.UpdateReviewInput{Rating: intPtr(5)})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.ErrorIs(t, env.reviews.Delete(ctx, other, review.ID), domainerrors.ErrForbidden)

	_, err = env.reviews.Update(ctx, author, review.ID, usecase.UpdateReviewInput{Rating: intPtr(9)})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidRating)

	require.NoError(t, env.reviews.Delete(ctx, author, review.ID))
	require.NoError(t, env.reviews.Delete(ctx, author, review.ID), "second delete is a no-op")

	_, err = env.reviews.Update(ctx, author, review.ID, usecase.UpdateReviewInput{Rating: intPtr(4)})
	assert.ErrorIs(t, err, domainerrors.ErrReviewNotFound)
}

func TestReviewService_ModerationIsScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, restaurant := env.seedPublishedRestaurant(t)
	intruder, _ := env.seedPublishedRestaurant(t)
	diner := env.seedUser(t, entity.RoleUser)

	review, err := env.reviews.Create(ctx, diner, restaurant.ID, usecase.CreateReviewInput{Rating: 1})
	require.NoError(t, err)

	_, err = env.reviews.Moderate(ctx, intruder, review.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.reviews.Moderate(ctx, diner, review.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = env.reviews.Moderate(ctx, owner, review.ID, false)
	require.NoError(t, err)

	page, err := env.reviews.List(ctx, diner, restaurant.ID, usecase.ListReviewsInput{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = env.reviews.List(ctx, diner, restaurant.ID, usecase.ListReviewsInput{IncludeInactive: true})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	page, err = env.reviews.List(ctx, owner, restaurant.ID, usecase.ListReviewsInput{IncludeInactive: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}
