package model

import (
	"time"

	"eatery/internal/domain/entity"

	"github.com/google/uuid"
)

// AuditEntryModel mirrors the append-only 'audit_entries' table.
type AuditEntryModel struct {
	ID         uuid.UUID                     `gorm:"type:uuid;primaryKey"`
	ActorID    *uuid.UUID                    `gorm:"type:uuid;index"`
	ActorRole  string                        `gorm:"type:varchar(20)"`
	EntityType string                        `gorm:"type:varchar(30);not null;index:idx_audit_entity,priority:1"`
	EntityID   *uuid.UUID                    `gorm:"type:uuid;index:idx_audit_entity,priority:2"`
	Action     string                        `gorm:"type:varchar(20);not null;index"`
	Before     map[string]any                `gorm:"type:jsonb;serializer:json"`
	After      map[string]any                `gorm:"type:jsonb;serializer:json"`
	Changes    map[string]entity.FieldChange `gorm:"type:jsonb;serializer:json"`
	IPAddress  string                        `gorm:"type:varchar(64)"`
	RequestID  string                        `gorm:"type:varchar(64);index"`
	CreatedAt  time.Time                     `gorm:"not null;index"`
	ExpiresAt  time.Time                     `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}
