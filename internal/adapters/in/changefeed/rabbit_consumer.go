package changefeed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"freight/internal/adapters/changefeedwire"
	"freight/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultReconnectInterval = 10 * time.Second

var errDeliveriesClosed = errors.New("rabbitmq deliveries channel closed")

// RabbitConsumer binds a private queue to the changes exchange and forwards
// every message into a publisher, usually the Hub.
type RabbitConsumer struct {
	url       string
	target    ports.ChangePublisher
	logger    *slog.Logger
	reconnect time.Duration
}

func NewRabbitConsumer(url string, target ports.ChangePublisher, logger *slog.Logger) *RabbitConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RabbitConsumer{
		url:       url,
		target:    target,
		logger:    logger.With("component", "rabbitmq_consumer"),
		reconnect: defaultReconnectInterval,
	}
}

// WithReconnectInterval overrides the wait between connection attempts.
func (c *RabbitConsumer) WithReconnectInterval(d time.Duration) *RabbitConsumer {
	c.reconnect = d
	return c
}

// Run consumes until ctx is done, reconnecting after failures.
func (c *RabbitConsumer) Run(ctx context.Context) error {
	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.WarnContext(ctx, "rabbitmq consumer stopped, reconnecting",
			"error", err,
			"retry_in", c.reconnect.String(),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.reconnect):
		}
	}
}

func (c *RabbitConsumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err = ch.ExchangeDeclare(changefeedwire.Channel, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}
	if err = ch.QueueBind(q.Name, "#", changefeedwire.Channel, false, nil); err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, q.Name, "", true, true, false, false, nil)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "consuming changes", "exchange", changefeedwire.Channel, "queue", q.Name)

	// Whatever was published while we were away is gone.
	c.forward(ctx, ports.ChangeEvent{Kind: ports.PoolChanged})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				return errDeliveriesClosed
			}
			event, decodeErr := changefeedwire.Decode(msg.Body)
			if decodeErr != nil {
				c.logger.WarnContext(ctx, "skipping malformed message",
					"routing_key", msg.RoutingKey,
					"error", decodeErr,
				)
				continue
			}
			c.forward(ctx, event)
		}
	}
}

func (c *RabbitConsumer) forward(ctx context.Context, event ports.ChangeEvent) {
	if err := c.target.Publish(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "failed to forward change", "kind", string(event.Kind), "error", err)
	}
}
