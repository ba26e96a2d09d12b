package service

import (
	"context"

	"eatery/internal/domain/entity"
)

// EventPublisher defines the interface for publishing domain events to a message queue
type EventPublisher interface {
	// PublishAuditEvent publishes the event derived from a recorded audit entry
	PublishAuditEvent(ctx context.Context, event *entity.AuditEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
