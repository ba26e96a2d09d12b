package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back and that error is returned unchanged.
	// A panic rolls back and is re-raised. All repository operations within the function share the transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides a way to get repository instances that are bound to a specific transaction.
// This ensures all repository operations within a transaction use the same database connection.
type RepositoryFactory interface {
	NewUserRepository() UserRepository
	NewRestaurantRepository() RestaurantRepository
	NewCategoryRepository() CategoryRepository
	NewMenuRepository() MenuRepository
	NewReviewRepository() ReviewRepository
	NewAuditRepository() AuditRepository

	// OnCommit registers fn to run after the transaction commits. It never runs on rollback.
	OnCommit(fn func())
}

// RunInTransaction is Execute for work producing a value.
func RunInTransaction[T any](ctx context.Context, tm TransactionManager, fn func(RepositoryFactory) (T, error)) (T, error) {
	var result T
	err := tm.Execute(ctx, func(repos RepositoryFactory) error {
		v, err := fn(repos)
		if err != nil {
			return err
		}
		result = v

		return nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return result, nil
}
