package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercearia/internal/models"

	amqp "github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange product events are published to.
const DefaultExchange = "produtos"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Logger   *slog.Logger
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// topic exchange for product events.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // delete when unused
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	cfg.Logger.Info("RabbitMQ client connected", slog.String("exchange", cfg.Exchange))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   cfg.Logger,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishProductEvent publishes event with its type as routing key.
func (c *Client) PublishProductEvent(ctx context.Context, event models.ProductEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := NewPublishing(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.Publish(
		c.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		msg)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	c.logger.DebugContext(ctx, "published product event",
		slog.String("type", event.Type),
		slog.Int64("produto_id", event.ProductID),
	)
	return nil
}

// NewPublishing encodes event as a persistent JSON message.
func NewPublishing(event models.ProductEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	ts := event.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
		Type:         event.Type,
		MessageId:    fmt.Sprintf("%s-%d-%d", event.Type, event.ProductID, ts.UnixNano()),
		Body:         body,
	}, nil
}
