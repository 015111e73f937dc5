// Package orders holds the order lifecycle core: atomic placement with price
// snapshots, the role-aware status machine and the read-side queries.
//
// The service never caches entities. Every call re-reads the store, decides,
// and writes in a single transaction. Post-commit events are best-effort.
package orders

import (
	"context"
	"log/slog"

	"food-ordering-api/events"
	"food-ordering-api/logger"
	"food-ordering-api/models"
)

type UserDirectory interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type RestaurantCatalog interface {
	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
}

type MenuCatalog interface {
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
}

// OrderRepository is the order side of the entity store. Implementations
// return errors wrapping ErrNotFound, ErrConflict or ErrTransactionFailure.
type OrderRepository interface {
	// CreateOrder persists the order, its items and the initial history row
	// atomically and fills in the generated ids
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	// CompareAndSetStatus moves the order from -> to only if it is still in
	// from, recording a history row in the same transaction
	CompareAndSetStatus(ctx context.Context, id uint, from, to models.OrderStatus, changedBy uint, note string) error
	ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	ListOrdersByRestaurant(ctx context.Context, restaurantID uint) ([]models.Order, error)
	StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error)
}

// Store bundles every collaborator; the gorm store satisfies it
type Store interface {
	UserDirectory
	RestaurantCatalog
	MenuCatalog
	OrderRepository
}

type Service struct {
	users       UserDirectory
	restaurants RestaurantCatalog
	menu        MenuCatalog
	orders      OrderRepository
	events      events.Publisher
	log         *slog.Logger
}

func NewService(store Store, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		users:       store,
		restaurants: store,
		menu:        store,
		orders:      store,
		events:      publisher,
		log:         log,
	}
}

func (s *Service) publish(ctx context.Context, event events.OrderEvent) {
	if s.events == nil {
		return
	}
	event.RequestID = logger.RequestID(ctx)
	if err := s.events.Publish(ctx, event); err != nil {
		logger.FromContext(ctx, s.log).Error("failed to publish order event",
			slog.String("action", event.Type),
			slog.Uint64("order_id", uint64(event.OrderID)),
			slog.String("error", err.Error()),
		)
	}
}
