package postgres

import (
	"context"
	"log/slog"

	deliverycontext "eatery/internal/delivery/context"
	"eatery/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

// gormRepositoryFactory implements the domain's RepositoryFactory interface.
// It holds a specific GORM transaction object (*gorm.Tx) and uses it to create
// repository instances that are bound to that single transaction.
type gormRepositoryFactory struct {
	tx          *gorm.DB // In GORM, a transaction object *gorm.Tx is also a *gorm.DB
	afterCommit []func()
}

// NewUserRepository creates a new user repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewUserRepository() repository.UserRepository {
	return NewUserRepository(f.tx)
}

// NewRestaurantRepository creates a new restaurant repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewRestaurantRepository() repository.RestaurantRepository {
	return NewRestaurantRepository(f.tx)
}

// NewCategoryRepository creates a new category repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewCategoryRepository() repository.CategoryRepository {
	return NewCategoryRepository(f.tx)
}

// NewMenuRepository creates a new menu repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewMenuRepository() repository.MenuRepository {
	return NewMenuRepository(f.tx)
}

// NewReviewRepository creates a new review repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewReviewRepository() repository.ReviewRepository {
	return NewReviewRepository(f.tx)
}

// NewAuditRepository creates a new audit repository instance bound to the transaction.
func (f *gormRepositoryFactory) NewAuditRepository() repository.AuditRepository {
	return NewAuditRepository(f.tx)
}

// OnCommit queues fn until the transaction has committed.
func (f *gormRepositoryFactory) OnCommit(fn func()) {
	f.afterCommit = append(f.afterCommit, fn)
}

// NewTransactionManager is the constructor for gormTransactionManager.
// This function will be used as an Fx provider.
func NewTransactionManager(db *gorm.DB, logger *slog.Logger) repository.TransactionManager {
	return &gormTransactionManager{db: db, logger: logger}
}

// Execute runs the given function within a single database transaction.
// The callback's error is returned unchanged; a failed rollback is only logged.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	// Begin a new transaction
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	// A panic inside the callback still rolls back before propagating.
	defer func() {
		if r := recover(); r != nil {
			tm.rollback(ctx, tx)
			panic(r)
		}
	}()

	factory := &gormRepositoryFactory{tx: tx}

	if err := fn(factory); err != nil {
		tm.rollback(ctx, tx)

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	for _, hook := range factory.afterCommit {
		hook()
	}

	return nil
}

func (tm *gormTransactionManager) rollback(ctx context.Context, tx *gorm.DB) {
	if err := tx.Rollback().Error; err != nil && tm.logger != nil {
		deliverycontext.GetLoggerOrDefault(ctx, tm.logger).
			Error("Transaction rollback failed", slog.Any("error", err))
	}
}
