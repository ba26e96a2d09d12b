package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. IDs are generated by the application as UUIDv7.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name              string     `gorm:"type:varchar(100)"`
	PasswordHash      string     `gorm:"type:varchar(255);not null"`
	Role              string     `gorm:"type:varchar(20);not null;default:'user'"`
	OwnedRestaurantID *uuid.UUID `gorm:"type:uuid;index"` // Owned by an admin or managed by a storeManager.
	IsActive          bool       `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
