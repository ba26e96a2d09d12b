package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is the domain event fanned out after an audit entry is recorded.
type AuditEvent struct {
	EntryID    uuid.UUID   `json:"entry_id"`
	ActorID    *uuid.UUID  `json:"actor_id,omitempty"`
	EntityType EntityType  `json:"entity_type"`
	EntityID   *uuid.UUID  `json:"entity_id,omitempty"`
	Action     AuditAction `json:"action"`
	RequestID  string      `json:"request_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewAuditEvent derives the event published for an entry.
func NewAuditEvent(entry *AuditEntry) *AuditEvent {
	return &AuditEvent{
		EntryID:    entry.ID,
		ActorID:    entry.ActorID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		RequestID:  entry.RequestID,
		OccurredAt: entry.CreatedAt,
	}
}
