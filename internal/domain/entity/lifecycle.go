package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status is the publication state of a resource.
type Status string

const (
	// StatusDraft is the initial state and the state after a restore.
	StatusDraft Status = "draft"
	// StatusPublished makes a resource visible to diners.
	StatusPublished Status = "published"
	// StatusBlocked is set by platform operators only.
	StatusBlocked Status = "blocked"
)

// IsValid checks if the Status is a valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusBlocked:
		return true
	default:
		return false
	}
}

// Lifecycle holds the soft-delete and publication state shared by every managed resource.
type Lifecycle struct {
	IsActive   bool       `json:"is_active"`             // False once soft-deleted.
	Status     Status     `json:"status"`                // Publication state.
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`  // When the resource was last soft-deleted.
	DeletedBy  *uuid.UUID `json:"deleted_by,omitempty"`  // Who soft-deleted the resource.
	RestoredAt *time.Time `json:"restored_at,omitempty"` // When the resource was last restored.
	RestoredBy *uuid.UUID `json:"restored_by,omitempty"` // Who restored the resource.
}

// SoftDeletable is implemented by every entity embedding Lifecycle.
type SoftDeletable interface {
	LifecycleState() *Lifecycle
}

// NewLifecycle returns the state of a freshly created resource.
func NewLifecycle(status Status) Lifecycle {
	if !status.IsValid() {
		status = StatusDraft
	}

	return Lifecycle{IsActive: true, Status: status}
}

// LifecycleState exposes the embedded state so callers can work on any resource uniformly.
func (l *Lifecycle) LifecycleState() *Lifecycle {
	return l
}

// SoftDelete deactivates the resource. It reports false when the resource was already inactive.
func (l *Lifecycle) SoftDelete(actorID uuid.UUID, at time.Time) bool {
	if !l.IsActive {
		return false
	}

	l.IsActive = false
	l.DeletedAt = &at
	l.DeletedBy = &actorID

	return true
}

// Restore reactivates the resource and resets it to draft. It reports false when the
// resource was already active.
func (l *Lifecycle) Restore(actorID uuid.UUID, at time.Time) bool {
	if l.IsActive {
		return false
	}

	l.IsActive = true
	l.Status = StatusDraft
	l.RestoredAt = &at
	l.RestoredBy = &actorID

	return true
}

// SetStatus changes the publication state. It reports false when nothing changed.
func (l *Lifecycle) SetStatus(status Status) bool {
	if l.Status == status {
		return false
	}

	l.Status = status

	return true
}

// IsPublic reports whether diners can see the resource.
func (l *Lifecycle) IsPublic() bool {
	return l.IsActive && l.Status == StatusPublished
}
