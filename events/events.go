// Package events publishes order lifecycle notifications after the store
// commits. Publishing is best-effort: the order is already persisted, so a
// broker failure is reported to the caller for logging and nothing more.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
)

const (
	TypeOrderPlaced        = "order_placed"
	TypeOrderStatusChanged = "order_status_changed"
)

type OrderEvent struct {
	Type         string             `json:"type"`
	OrderID      uint               `json:"order_id"`
	CustomerID   uint               `json:"customer_id"`
	RestaurantID uint               `json:"restaurant_id"`
	OldStatus    models.OrderStatus `json:"old_status,omitempty"`
	NewStatus    models.OrderStatus `json:"new_status"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	ChangedBy    uint               `json:"changed_by"`
	RequestID    string             `json:"request_id,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}

// Publisher delivers order events to whoever listens (kitchen displays,
// notification service, analytics)
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

func OrderPlaced(order *models.Order) OrderEvent {
	return OrderEvent{
		Type:         TypeOrderPlaced,
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		RestaurantID: order.RestaurantID,
		NewStatus:    order.Status,
		TotalAmount:  order.TotalAmount,
		ChangedBy:    order.CustomerID,
		Timestamp:    time.Now().UTC(),
	}
}

func StatusChanged(order *models.Order, from models.OrderStatus, changedBy uint) OrderEvent {
	return OrderEvent{
		Type:         TypeOrderStatusChanged,
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		RestaurantID: order.RestaurantID,
		OldStatus:    from,
		NewStatus:    order.Status,
		TotalAmount:  order.TotalAmount,
		ChangedBy:    changedBy,
		Timestamp:    time.Now().UTC(),
	}
}

func encode(event OrderEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return body, nil
}

// New builds the publisher selected by cfg.Driver
func New(cfg config.EventsConfig, log *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.EventsKafka:
		return NewKafkaPublisher(cfg.Brokers, cfg.Topic), nil
	case config.EventsRabbitMQ:
		return NewRabbitPublisher(cfg.AMQPURL, cfg.Exchange)
	case config.EventsLog, "":
		return NewLogPublisher(log), nil
	default:
		return nil, fmt.Errorf("unsupported events driver %q", cfg.Driver)
	}
}
