package order

import (
	"context"
	"time"
)

// Routing keys of order events
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is published after an order changes
type Event struct {
	Type       string      `json:"type"`
	OrderID    string      `json:"orderId"`
	OID        uint        `json:"oid"`
	Email      string      `json:"email"`
	Status     OrderStatus `json:"status"`
	TotalPrice int64       `json:"totalPrice"`
	Items      []OrderItem `json:"items,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// Publisher delivers order events to the message broker
type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) PublishJSON(context.Context, string, any) error { return nil }
