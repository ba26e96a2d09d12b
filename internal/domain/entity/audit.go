package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditRetention is how long audit entries are kept before the janitor purges them.
const AuditRetention = 180 * 24 * time.Hour

// AuditAction names what happened to an entity.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionDelete       AuditAction = "DELETE"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
	AuditActionLogin        AuditAction = "LOGIN"
	AuditActionLoginFailed  AuditAction = "LOGIN_FAILED"
	AuditActionLogout       AuditAction = "LOGOUT"
)

// EntityType names the kind of audited entity.
type EntityType string

const (
	EntityTypeUser       EntityType = "user"
	EntityTypeRestaurant EntityType = "restaurant"
	EntityTypeCategory   EntityType = "category"
	EntityTypeMenu       EntityType = "menu"
	EntityTypeReview     EntityType = "review"
)

// FieldChange is the old and new value of a single changed field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// AuditEntry is an immutable record of a state transition. Before and After hold
// sanitized snapshots.
type AuditEntry struct {
	ID         uuid.UUID              `json:"id"`
	ActorID    *uuid.UUID             `json:"actor_id,omitempty"` // Nil for anonymous events such as failed logins.
	ActorRole  Role                   `json:"actor_role,omitempty"`
	EntityType EntityType             `json:"entity_type"`
	EntityID   *uuid.UUID             `json:"entity_id,omitempty"`
	Action     AuditAction            `json:"action"`
	Before     map[string]any         `json:"before,omitempty"`
	After      map[string]any         `json:"after,omitempty"`
	Changes    map[string]FieldChange `json:"changes,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	ExpiresAt  time.Time              `json:"expires_at"`
}

// AuditPage is one page of audit query results.
type AuditPage struct {
	Items    []*AuditEntry `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
