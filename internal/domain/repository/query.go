package repository

import (
	"context"
	"time"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrStaleLifecycle is returned when the stored lifecycle state no longer matches the one
// a change was computed from.
var ErrStaleLifecycle = errors.New("lifecycle state changed concurrently")

// QueryOptions widens default read scoping.
type QueryOptions struct {
	// IncludeInactive returns soft-deleted rows as well.
	IncludeInactive bool
}

const (
	// DefaultPageSize applies when a caller asks for no particular size.
	DefaultPageSize = 20
	// MaxPageSize caps every paginated query.
	MaxPageSize = 100
)

// Pagination selects a 1-based page.
type Pagination struct {
	Page     int
	PageSize int
}

// Normalize clamps the page into valid bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	return p
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	n := p.Normalize()

	return (n.Page - 1) * n.PageSize
}

// Span is an inclusive time window. Zero bounds are open.
type Span struct {
	From time.Time
	To   time.Time
}

// LifecycleChange is a compare-and-set of the lifecycle columns. It lands only while the
// stored row still holds Expected's active flag and status and, on versioned tables, Version.
type LifecycleChange struct {
	ID       uuid.UUID
	Expected entity.Lifecycle
	State    entity.Lifecycle
	// Version is the revision read together with Expected. Unversioned tables ignore it.
	Version int
}

// LifecycleRepository persists the soft-delete state computed by entity.Lifecycle.
type LifecycleRepository interface {
	// SaveLifecycle applies the change. A row that moved on since it was read yields
	// ErrVersionConflict on versioned tables and ErrStaleLifecycle elsewhere.
	SaveLifecycle(ctx context.Context, change LifecycleChange) error

	// HardDelete removes the row permanently.
	HardDelete(ctx context.Context, id uuid.UUID) error
}
