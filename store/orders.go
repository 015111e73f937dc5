package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/orders"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id asc")
	})
}

// CreateOrder writes the order row, its item rows and the initial history row
// in one transaction
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: order has no items", orders.ErrInvalidInput)
	}

	items := order.Items
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}

		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: order.CustomerID,
			Note:      "Order placed by customer",
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		// nothing was committed, so drop the ids gorm assigned on the way
		order.ID = 0
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = 0
		}
		return fmt.Errorf("%w: %w", orders.ErrTransactionFailure, err)
	}

	order.Items = items
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := preloadItems(s.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, notFound(err, "order", id)
	}
	return &order, nil
}

// CompareAndSetStatus is the only way an order's status changes after
// placement. The UPDATE is guarded by the expected current status, so of two
// racing requests decided against the same status only one can commit.
func (s *Store) CompareAndSetStatus(ctx context.Context, id uint, from, to models.OrderStatus, changedBy uint, note string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]any{"status": to, "updated_at": time.Now()})
		if res.Error != nil {
			return fmt.Errorf("failed to update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return orders.ErrConflict
		}

		history := models.OrderStatusHistory{
			OrderID:    id,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Note:       note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, orders.ErrConflict) {
			return fmt.Errorf("%w: order %d is no longer %s", orders.ErrConflict, id, from)
		}
		return fmt.Errorf("%w: %w", orders.ErrTransactionFailure, err)
	}
	return nil
}

func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var list []models.Order
	err := preloadItems(s.db.WithContext(ctx)).
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, readFailed(err, "failed to list orders for customer %d", customerID)
	}
	return list, nil
}

func (s *Store) ListOrdersByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	var list []models.Order
	err := preloadItems(s.db.WithContext(ctx)).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc, id desc").
		Find(&list).Error
	if err != nil {
		return nil, readFailed(err, "failed to list orders for restaurant %d", restaurantID)
	}
	return list, nil
}

func (s *Store) StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&history).Error
	if err != nil {
		return nil, readFailed(err, "failed to load status history for order %d", orderID)
	}
	return history, nil
}

var _ orders.Store = (*Store)(nil)
