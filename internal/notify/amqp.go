package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpTransport publishes messages to the relay exchange. The relay owns
// the queue and its binding.
type amqpTransport struct {
	url        string
	exchange   string
	routingKey string
	log        *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func newAMQPTransport(opts Options, logger *zap.Logger) (*amqpTransport, error) {
	if opts.AMQPURL == "" {
		return nil, errors.New("notify.amqp_url is required for the amqp driver")
	}
	if opts.AMQPExchange == "" {
		opts.AMQPExchange = "notifications"
	}
	if opts.AMQPRoutingKey == "" {
		opts.AMQPRoutingKey = "website"
	}
	t := &amqpTransport{
		url:        opts.AMQPURL,
		exchange:   opts.AMQPExchange,
		routingKey: opts.AMQPRoutingKey,
		log:        logger,
	}
	if err := t.dial(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *amqpTransport) dial() error {
	conn, err := amqp.Dial(t.url)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(t.exchange, "direct", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", t.exchange, err)
	}
	t.conn, t.ch = conn, ch
	t.log.Info("rabbitmq connection established", zap.String("exchange", t.exchange))
	return nil
}

func (t *amqpTransport) send(ctx context.Context, m Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil || t.conn.IsClosed() {
		if err := t.dial(); err != nil {
			return err
		}
	}
	err = t.ch.PublishWithContext(ctx, t.exchange, t.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         m.Kind,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", m.Kind, err)
	}
	return nil
}

func (t *amqpTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ch != nil {
		if err := t.ch.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
		t.ch = nil
	}
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
		t.conn = nil
	}
	return nil
}
