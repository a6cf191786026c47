// Package rabbitmq publishes and consumes product change events.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// DefaultQueue receives every product event.
const DefaultQueue = "product_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *logrus.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// ProductEvent is the JSON body of every message on the queue.
type ProductEvent struct {
	Event      string         `json:"event"`
	Product    map[string]any `json:"product"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// event queue.
func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
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

	if _, err := declare(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.WithField("queue", cfg.Queue).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		log:     log,
	}, nil
}

func declare(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return q, fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return q, nil
}

// Close closes the channel and then the connection.
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
	return errors.Join(errs...)
}

// NewPublishing builds the persistent JSON message for an event.
func NewPublishing(event string, product map[string]any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ProductEvent{
		Event:      event,
		Product:    product,
		OccurredAt: now.UTC(),
	})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         event,
		Timestamp:    now,
		Body:         body,
	}, nil
}

// DecodeProductEvent parses a message body written by NewPublishing.
func DecodeProductEvent(body []byte) (*ProductEvent, error) {
	var ev ProductEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode product event: %w", err)
	}
	if ev.Event == "" {
		return nil, errors.New("product event has no event name")
	}
	return &ev, nil
}

// PublishProductEvent sends one event to the queue through the default
// exchange.
func (c *Client) PublishProductEvent(ctx context.Context, event string, product map[string]any) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := NewPublishing(event, product, time.Now())
	if err != nil {
		return err
	}
	if err := c.channel.Publish("", c.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}

	c.log.WithFields(logrus.Fields{"event": event, "message_id": msg.MessageId}).Debug("published product event")
	return nil
}

// ConsumeProductEvents delivers queue messages to handler in a background
// goroutine. Messages are acked when handler returns nil and requeued
// otherwise, except for bodies that cannot be decoded, which are dropped.
func (c *Client) ConsumeProductEvents(handler func(*ProductEvent) error) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.handle(msg, handler)
		}
		c.log.Info("product event consumer stopped")
	}()
	return nil
}

func (c *Client) handle(msg amqp.Delivery, handler func(*ProductEvent) error) {
	entry := c.log.WithField("delivery_tag", msg.DeliveryTag)

	ev, err := DecodeProductEvent(msg.Body)
	if err != nil {
		entry.WithError(err).Warn("dropping malformed product event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			entry.WithError(nackErr).Error("failed to nack message")
		}
		return
	}

	if err := handler(ev); err != nil {
		entry.WithError(err).Error("failed to process product event")
		if nackErr := msg.Nack(false, true); nackErr != nil {
			entry.WithError(nackErr).Error("failed to nack message")
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		entry.WithError(ackErr).Error("failed to ack message")
	}
}
