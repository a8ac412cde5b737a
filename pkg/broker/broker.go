package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Message struct {
	MessageID  string
	Type       string
	RoutingKey string
	Body       []byte
}

// Publisher delivers messages to downstream consumers. Publish returns only
// after the broker has confirmed the message.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// RabbitMq publishes to a durable fanout exchange with publisher confirms.
type RabbitMq struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	mu       sync.Mutex
}

func NewRabbitMq(url, exchange string) (*RabbitMq, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	if err := channel.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	return &RabbitMq{conn: conn, channel: channel, exchange: exchange}, nil
}

func (r *RabbitMq) Publish(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	confirmation, err := r.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		r.exchange,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.MessageID,
			Type:         msg.Type,
			Timestamp:    time.Now(),
			Body:         msg.Body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message %s: %w", msg.MessageID, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("no confirmation for message %s: %w", msg.MessageID, err)
	}
	if !acked {
		return fmt.Errorf("broker rejected message %s", msg.MessageID)
	}
	return nil
}

func (r *RabbitMq) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}

// LogPublisher stands in for the broker when no AMQP URL is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	p.logger.Info("broker disabled, message logged",
		zap.String("message_id", msg.MessageID),
		zap.String("type", msg.Type),
		zap.String("routing_key", msg.RoutingKey),
		zap.ByteString("body", msg.Body),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
