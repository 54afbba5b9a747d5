package services

import (
	"time"

	"cafepos/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Routing keys of the order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaid          = "order.paid"
)

// EventPublisher sends domain events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// OrderEvent is the payload of every order event.
type OrderEvent struct {
	OrderID       string               `json:"order_id"`
	OrderNumber   string               `json:"order_number"`
	TableID       string               `json:"table_id"`
	UserID        string               `json:"user_id"`
	OrderStatus   models.OrderStatus   `json:"order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	FinalAmount   decimal.Decimal      `json:"final_amount"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

func newOrderEvent(order *models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		TableID:       order.TableID,
		UserID:        order.UserID,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		FinalAmount:   order.FinalAmount,
		OccurredAt:    at,
	}
}

// publish logs and drops broker failures. The order is already saved.
func publish(publisher EventPublisher, log zerolog.Logger, routingKey string, order *models.Order, at time.Time) {
	if publisher == nil {
		log.Debug().Str("event", routingKey).Msg("event publisher not configured, skipping")
		return
	}
	if err := publisher.Publish(routingKey, newOrderEvent(order, at)); err != nil {
		log.Warn().Err(err).Str("event", routingKey).Str("order_id", order.ID).Msg("failed to publish order event")
		return
	}
	log.Debug().Str("event", routingKey).Str("order_id", order.ID).Msg("published order event")
}
