package orders

import (
	"context"

	"food-ordering-api/models"
)

// OrdersByCustomer lists a customer's orders, newest first
func (s *Service) OrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	if _, err := s.users.GetUser(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.ListOrdersByCustomer(ctx, customerID)
}

// OrdersByRestaurant lists a restaurant's orders, newest first
func (s *Service) OrdersByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error) {
	if _, err := s.restaurants.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	return s.orders.ListOrdersByRestaurant(ctx, restaurantID)
}

func (s *Service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// StatusHistory returns the audit trail of an order, oldest first
func (s *Service) StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	if _, err := s.orders.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.StatusHistory(ctx, orderID)
}
