package service

import (
	"context"

	"eatery/internal/domain/entity"
	"eatery/internal/domain/repository"
)

// AuditRecorder writes audit entries on a best-effort basis.
type AuditRecorder interface {
	// Record stores entry through tx when it is non-nil, otherwise standalone.
	// Failures are logged and never returned.
	Record(ctx context.Context, tx repository.RepositoryFactory, entry *entity.AuditEntry)
}
