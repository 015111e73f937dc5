package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"food-ordering-api/events"
	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"
)

type UpdateStatusInput struct {
	OrderID      uint
	Status       models.OrderStatus
	ActingUserID uint
	Note         string
}

// UpdateStatus applies a transition requested by the acting user. The rules
// are evaluated against the status read here, and the write only succeeds if
// the order is still in that status when it commits.
func (s *Service) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*models.Order, error) {
	log := logger.FromContext(ctx, s.log).With(
		slog.String("action", "update_status"),
		slog.Uint64("order_id", uint64(in.OrderID)),
		slog.Uint64("acting_user_id", uint64(in.ActingUserID)),
		slog.String("requested_status", string(in.Status)),
	)

	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, in.Status)
	}

	order, err := s.orders.GetOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	actor, err := s.users.GetUser(ctx, in.ActingUserID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.restaurants.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	facts := statemachine.OrderFacts{
		Status:            from,
		CustomerID:        order.CustomerID,
		RestaurantOwnerID: restaurant.OwnerID,
	}
	who := statemachine.Actor{UserID: actor.ID, Role: actor.Role}
	decision := statemachine.Decide(facts, in.Status, who)
	if !decision.Allowed {
		log.Info("status transition denied", slog.String("reason", decision.Reason))
		denied := &DeniedError{Reason: decision.Reason}
		for _, next := range statemachine.NextStatuses(facts, who) {
			denied.ValidNext = append(denied.ValidNext, string(next))
		}
		return nil, denied
	}

	if err := s.orders.CompareAndSetStatus(ctx, order.ID, from, in.Status, actor.ID, in.Note); err != nil {
		if errors.Is(err, ErrConflict) {
			log.Warn("status transition lost a concurrent update")
		} else {
			log.Error("failed to update order status", slog.String("error", err.Error()))
		}
		return nil, err
	}

	updated, err := s.orders.GetOrder(ctx, order.ID)
	if err != nil {
		// the transition is committed; answer from what was read before it
		log.Warn("failed to reload order after status update", slog.String("error", err.Error()))
		committed := *order
		committed.Status = in.Status
		updated = &committed
	}

	log.Info("order status updated",
		slog.String("from", string(from)),
		slog.String("to", string(updated.Status)),
	)
	s.publish(ctx, events.StatusChanged(updated, from, actor.ID))

	return updated, nil
}
