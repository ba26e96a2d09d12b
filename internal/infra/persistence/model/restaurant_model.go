package model

import (
	"time"

	"github.com/google/uuid"
)

// RestaurantModel mirrors the 'restaurants' table.
type RestaurantModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(200);not null"`
	Description      string    `gorm:"type:text"`
	Address          string    `gorm:"type:varchar(500)"`
	Phone            string    `gorm:"type:varchar(50)"`
	Latitude         float64   `gorm:"index:idx_restaurants_location,priority:1"`
	Longitude        float64   `gorm:"index:idx_restaurants_location,priority:2"`
	RatingAverage    float64   `gorm:"not null;default:0"`
	RatingCount      int       `gorm:"not null;default:0"`
	LifecycleColumns `gorm:"embedded"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (RestaurantModel) TableName() string {
	return "restaurants"
}

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(100);not null"`
	Description      string    `gorm:"type:text"`
	Position         int       `gorm:"not null;default:0"`
	LifecycleColumns `gorm:"embedded"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// MenuModel mirrors the 'menus' table. Version is bumped on every write.
type MenuModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RestaurantID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID       *uuid.UUID `gorm:"type:uuid;index"`
	Name             string     `gorm:"type:varchar(200);not null"`
	Description      string     `gorm:"type:text"`
	PriceCents       int64      `gorm:"not null;default:0"`
	Version          int        `gorm:"not null;default:1"`
	LifecycleColumns `gorm:"embedded"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (MenuModel) TableName() string {
	return "menus"
}

// ReviewModel mirrors the 'reviews' table. A user reviews a restaurant at most once.
type ReviewModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_restaurant,priority:2;index"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_restaurant,priority:1"`
	Rating           int       `gorm:"not null"`
	Comment          string    `gorm:"type:text"`
	LifecycleColumns `gorm:"embedded"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
