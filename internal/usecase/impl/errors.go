package impl

import (
	domainerrors "eatery/internal/domain/errors"
	"eatery/internal/domain/repository"

	"github.com/pkg/errors"
)

// repositoryErrors maps persistence sentinels onto client-facing domain errors.
var repositoryErrors = []struct {
	sentinel error
	domain   *domainerrors.BaseError
}{
	{repository.ErrUserNotFound, domainerrors.ErrUserNotFound},
	{repository.ErrDuplicateEmail, domainerrors.ErrUserAlreadyExists},
	{repository.ErrRestaurantNotFound, domainerrors.ErrRestaurantNotFound},
	{repository.ErrCategoryNotFound, domainerrors.ErrCategoryNotFound},
	{repository.ErrMenuNotFound, domainerrors.ErrMenuNotFound},
	{repository.ErrVersionConflict, domainerrors.ErrVersionConflict},
	{repository.ErrStaleLifecycle, domainerrors.ErrStaleLifecycle},
	{repository.ErrReviewNotFound, domainerrors.ErrReviewNotFound},
	{repository.ErrDuplicateReview, domainerrors.ErrDuplicateReview},
}

// translateError converts repository sentinels to domain errors. Anything else,
// already classified or not, is returned as is.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	for _, m := range repositoryErrors {
		if errors.Is(err, m.sentinel) {
			return errors.WithStack(m.domain)
		}
	}

	return err
}
