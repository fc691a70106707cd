package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/spec-kit/whistleblow-portal/internal/config"
)

// AMQP wraps an optional message-broker connection used to fan out
// case notifications to external consumers. When no broker URL is
// configured every method is a no-op.
type AMQP struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQP connects to the broker when configured.
func NewAMQP(cfg config.NotificationConfig, logger *zap.Logger) (*AMQP, error) {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not provided; broker notifications disabled")
		return &AMQP{}, nil
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if _, err := channel.QueueDeclare(cfg.AMQPQueue, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	logger.Info("connected to amqp broker", zap.String("queue", cfg.AMQPQueue))
	return &AMQP{conn: conn, channel: channel, queue: cfg.AMQPQueue}, nil
}

// Publish marshals the payload and sends it as a persistent message.
func (a *AMQP) Publish(ctx context.Context, payload any) error {
	if a == nil || a.channel == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return a.channel.PublishWithContext(ctx, "", a.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
}

// Close releases broker resources.
func (a *AMQP) Close() {
	if a == nil {
		return
	}
	if a.channel != nil {
		_ = a.channel.Close()
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
}
