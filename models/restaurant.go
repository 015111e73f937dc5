package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Cuisine   string    `json:"cuisine"`
	Address   string    `json:"address"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuItem.Price is the live catalog price. Orders never read it after placement.
type MenuItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	RestaurantID uint            `json:"restaurant_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Category     string          `json:"category"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
