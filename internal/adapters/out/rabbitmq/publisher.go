// Package rabbitmq publishes committed domain events to a topic exchange, routed by
// event name, for consumers outside this service.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"orderhub/internal/adapters/out/events"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "orderhub.events"

type Config struct {
	URL      string
	Exchange string
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	Close() error
}

// Publisher is a ports.EventHandler that forwards each event as a persistent JSON
// message with the event name as routing key.
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  channel
	exchange string
	logger   *slog.Logger
}

var _ ports.EventHandler = (*Publisher)(nil)

// NewPublisher connects and declares the durable topic exchange.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	p := newPublisher(ch, cfg.Exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger.With("component", "rabbitmq_publisher"),
	}
}

func (p *Publisher) Handle(ctx context.Context, event kernel.DomainEvent) error {
	env := events.NewEnvelope(event)
	body, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Name, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, env.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.OccurredAt,
		Type:         env.Name,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", env.Name, p.exchange, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("event", env.Name),
		slog.String("message_id", env.ID))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.channel != nil {
		err = p.channel.Close()
	}
	if p.conn != nil {
		if closeErr := p.conn.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
