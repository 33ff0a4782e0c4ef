// Package rabbitmq announces committed changes on a topic exchange so that
// sessions served by other processes re-pull too.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"freight/internal/adapters/changefeedwire"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

// Publisher implements ports.ChangePublisher. The routing key is the change
// kind. A dropped connection is re-dialed on the next Publish.
type Publisher struct {
	url    string
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{url: url, logger: logger.With("component", "rabbitmq_publisher")}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return p, nil
}

func (p *Publisher) Publish(ctx context.Context, events ...ports.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isAlive() {
		p.logger.WarnContext(ctx, "rabbitmq connection is closed, reconnecting")
		if err := p.connect(); err != nil {
			return errs.NewTransientError("connect to rabbitmq", err)
		}
	}

	for _, e := range events {
		body, err := changefeedwire.Encode(e)
		if err != nil {
			return err
		}
		err = p.ch.PublishWithContext(ctx, changefeedwire.Channel, string(e.Kind), false, false, amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        body,
		})
		if err != nil {
			return errs.NewTransientError("publish change", err)
		}
	}
	return nil
}

// IsAlive reports whether both the connection and the channel are open.
func (p *Publisher) IsAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isAlive()
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.close()
}

func (p *Publisher) isAlive() bool {
	return p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed()
}

func (p *Publisher) connect() error {
	_ = p.close()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err = ch.ExchangeDeclare(changefeedwire.Channel, exchangeKind, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) close() error {
	if p.ch != nil && !p.ch.IsClosed() {
		if err := p.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
