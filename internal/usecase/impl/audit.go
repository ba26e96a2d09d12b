package impl

import (
	"eatery/internal/domain/entity"
	"eatery/internal/util"

	"github.com/google/uuid"
)

// newAuditEntry builds an entry attributed to p. before and after are snapshots taken
// with util.Sanitize so later mutations of the entity do not leak into them.
func newAuditEntry(
	p *entity.Principal,
	entityType entity.EntityType,
	entityID uuid.UUID,
	action entity.AuditAction,
	before, after map[string]any,
) *entity.AuditEntry {
	entry := &entity.AuditEntry{
		EntityType: entityType,
		Action:     action,
		Before:     before,
		After:      after,
	}
	if p != nil {
		actorID := p.ID
		entry.ActorID = &actorID
		entry.ActorRole = p.Role
	}
	if entityID != uuid.Nil {
		id := entityID
		entry.EntityID = &id
	}

	return entry
}

// snapshot is util.Sanitize for audit call sites.
func snapshot(v any) map[string]any {
	return util.Sanitize(v)
}
