package models

import (
	"time"
)

// UserRole is the closed set of roles an actor can hold
type UserRole string

const (
	RoleCustomer        UserRole = "CUSTOMER"
	RoleRestaurantOwner UserRole = "RESTAURANT_OWNER"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleRestaurantOwner:
		return true
	}
	return false
}

// User is owned by the user directory; orders and restaurants only hold its ID.
// Role never changes after creation.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Role      UserRole  `json:"role" gorm:"not null"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
