package model

import (
	"time"

	"github.com/google/uuid"
)

// LifecycleColumns is embedded by every soft-deletable table.
// Default read scoping filters on IsActive.
type LifecycleColumns struct {
	IsActive   bool       `gorm:"not null;default:true;index"`
	Status     string     `gorm:"type:varchar(20);not null;default:'draft'"`
	DeletedAt  *time.Time `gorm:"column:deleted_at"`
	DeletedBy  *uuid.UUID `gorm:"type:uuid"`
	RestoredAt *time.Time
	RestoredBy *uuid.UUID `gorm:"type:uuid"`
}

// All lists every persistence model, in migration order.
func All() []any {
	return []any{
		&UserModel{},
		&RestaurantModel{},
		&CategoryModel{},
		&MenuModel{},
		&ReviewModel{},
		&AuditEntryModel{},
	}
}
