package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type QueueConfig struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		Durable:    true,
		AutoDelete: false,
		Exclusive:  false,
		NoWait:     false,
		Args:       nil,
	}
}

type Publisher struct {
	chManager *ChannelManager
	ctx       context.Context
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("connection manager is required")
	}
	return &Publisher{
		chManager: NewChannelManager(ctx, connManager),
		ctx:       ctx,
	}, nil
}

// Publish declares the queue and sends one pubsub-envelope message to it.
func (p *Publisher) Publish(queueName, pattern string, msg *Message) error {
	ch, err := p.chManager.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	cfg := DefaultQueueConfig()
	if _, err := ch.QueueDeclare(queueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	publishing, err := msg.GeneratePubsubPayload(pattern)
	if err != nil {
		return fmt.Errorf("failed to build payload: %w", err)
	}

	if err := ch.PublishWithContext(p.ctx, "", queueName, false, false, *publishing); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.chManager.Close()
}
