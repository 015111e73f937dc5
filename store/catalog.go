package store

import (
	"context"
	"errors"
	"fmt"

	"food-ordering-api/models"
	"food-ordering-api/orders"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", orders.ErrNotFound, what, id)
	}
	return readFailed(err, "failed to load %s %d", what, id)
}

// readFailed wraps a read error. A cancelled or expired context aborts the
// caller's unit of work and is reported as a transaction failure.
func readFailed(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", orders.ErrTransactionFailure, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (s *Store) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, notFound(err, "restaurant", id)
	}
	return &restaurant, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, "menu item", id)
	}
	return &item, nil
}

// ── Catalog writes ──────────────────────────────────────────────────────────
// User, restaurant and menu management belong to other services. These exist
// for seeding and for tests.

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", orders.ErrInvalidInput, user.Role)
	}
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return s.db.WithContext(ctx).Create(restaurant).Error
}

func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// SetMenuItemPrice changes the live catalog price
func (s *Store) SetMenuItemPrice(ctx context.Context, id uint, price decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Update("price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: menu item %d", orders.ErrNotFound, id)
	}
	return nil
}

// DeleteMenuItem removes an item from the catalog. Past orders keep their
// snapshot rows.
func (s *Store) DeleteMenuItem(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.MenuItem{}, id).Error
}
