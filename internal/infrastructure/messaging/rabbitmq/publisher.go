// internal/infrastructure/messaging/rabbitmq/publisher.go
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// Publisher sends JSON events to a durable topic exchange
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	appID    string
	logger   *logrus.Logger
}

// NewPublisher dials RabbitMQ and declares the events exchange
func NewPublisher(cfg *config.Config, logger *logrus.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.Messaging.RabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Messaging.RabbitExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.WithField("exchange", cfg.Messaging.RabbitExchange).Info("RabbitMQ publisher ready")

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: cfg.Messaging.RabbitExchange,
		appID:    cfg.App.Name,
		logger:   logger,
	}, nil
}

// PublishJSON marshals v and publishes it with routingKey
func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		AppId:        p.appID,
		Type:         routingKey,
		Body:         body,
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	p.logger.WithFields(logrus.Fields{"routing_key": routingKey, "message_id": msg.MessageId}).Debug("Event published")
	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
