package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"food-ordering-api/events"
	"food-ordering-api/logger"
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	MenuItemID uint
	Quantity   int
}

type PlaceOrderInput struct {
	CustomerID      uint
	RestaurantID    uint
	Lines           []CartLine
	DeliveryAddress string
	Notes           string
}

func validateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	}
	for i, line := range lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity must be at least 1", ErrInvalidInput, i)
		}
		if line.MenuItemID == 0 {
			return fmt.Errorf("%w: items[%d].menu_item_id is required", ErrInvalidInput, i)
		}
	}
	return nil
}

// PlaceOrder creates an order for a customer with every line priced at the
// menu item's current price, rounded to cents. The prices read here are
// pinned on the order items; later catalog edits never reach this order.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	log := logger.FromContext(ctx, s.log).With(
		slog.String("action", "place_order"),
		slog.Uint64("customer_id", uint64(in.CustomerID)),
		slog.Uint64("restaurant_id", uint64(in.RestaurantID)),
	)

	if err := validateCart(in.Lines); err != nil {
		return nil, err
	}

	customer, err := s.users.GetUser(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d cannot place orders", ErrUnauthorized, in.CustomerID)
		}
		return nil, err
	}
	if customer.Role != models.RoleCustomer {
		return nil, fmt.Errorf("%w: only customers can place orders", ErrUnauthorized)
	}

	restaurant, err := s.restaurants.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsOpen {
		return nil, fmt.Errorf("%w: restaurant %d is currently closed", ErrInvalidInput, restaurant.ID)
	}

	items := make([]models.OrderItem, 0, len(in.Lines))
	total := decimal.Zero
	for i, line := range in.Lines {
		menuItem, err := s.menu.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if menuItem.RestaurantID != restaurant.ID {
			return nil, fmt.Errorf("%w: items[%d]: menu item %d does not belong to restaurant %d",
				ErrInvalidInput, i, menuItem.ID, restaurant.ID)
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: items[%d]: menu item '%s' is not available", ErrInvalidInput, i, menuItem.Name)
		}

		item := models.OrderItem{
			MenuItemID:   menuItem.ID,
			Name:         menuItem.Name,
			Quantity:     line.Quantity,
			PriceAtOrder: menuItem.Price.Round(models.MoneyPlaces),
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}

	order := &models.Order{
		CustomerID:      customer.ID,
		RestaurantID:    restaurant.ID,
		Status:          models.StatusPlaced,
		TotalAmount:     total,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
		Items:           items,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		log.Error("failed to persist order", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("order placed",
		slog.Uint64("order_id", uint64(order.ID)),
		slog.Int("items", len(order.Items)),
		slog.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	s.publish(ctx, events.OrderPlaced(order))

	return order, nil
}
