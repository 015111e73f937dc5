package store

import (
	"context"
	"fmt"

	"food-ordering-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedResult holds the ids of the demo entities
type SeedResult struct {
	CustomerID   uint
	OwnerID      uint
	RestaurantID uint
	MenuItemIDs  []uint
}

// Seed inserts a demo customer, owner, restaurant and menu when the user
// table is empty. It is a no-op on a populated database.
func (s *Store) Seed(ctx context.Context) (*SeedResult, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	res := &SeedResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer := models.User{Name: "Demo Customer", Email: "customer@example.com", Role: models.RoleCustomer}
		owner := models.User{Name: "Demo Owner", Email: "owner@example.com", Role: models.RoleRestaurantOwner}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		restaurant := models.Restaurant{OwnerID: owner.ID, Name: "Spice Route", Cuisine: "Indian", Address: "12 Curry Lane", IsOpen: true}
		if err := tx.Create(&restaurant).Error; err != nil {
			return err
		}

		menu := []models.MenuItem{
			{RestaurantID: restaurant.ID, Name: "Butter Chicken", Price: decimal.RequireFromString("12.50"), Category: "main", IsAvailable: true},
			{RestaurantID: restaurant.ID, Name: "Garlic Naan", Price: decimal.RequireFromString("3.25"), Category: "bread", IsAvailable: true},
			{RestaurantID: restaurant.ID, Name: "Mango Lassi", Price: decimal.RequireFromString("4.00"), Category: "drinks", IsAvailable: true},
		}
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}

		res.CustomerID = customer.ID
		res.OwnerID = owner.ID
		res.RestaurantID = restaurant.ID
		for _, item := range menu {
			res.MenuItemIDs = append(res.MenuItemIDs, item.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo data: %w", err)
	}
	return res, nil
}
