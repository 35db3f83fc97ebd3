package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"xtopay-checkout/internal/pkg/logger"

	"github.com/panjf2000/ants/v2"

	amqp "github.com/rabbitmq/amqp091-go"
)

type MessageHandler func(msg *amqp.Delivery) error

type SubscribeOptions struct {
	QueueName        string
	ConsumerName     string
	WorkerCount      int
	PrefetchCount    int
	MaxRetryAttempts int
	EnableDeadLetter bool
	DeadLetterName   string
	RetryDelay       time.Duration
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:        queueName,
		ConsumerName:     queueName,
		WorkerCount:      3,
		PrefetchCount:    10,
		MaxRetryAttempts: 5,
		EnableDeadLetter: true,
		DeadLetterName:   "fail:" + queueName,
		RetryDelay:       time.Second * 5,
	}
}

// Subscriber consumes one queue with a fixed worker pool. Failed messages
// are redelivered with a fixed delay until the retry budget is spent, then
// parked on the dead-letter queue.
type Subscriber struct {
	connManager *ConnectionManager
	chManager   *ChannelManager
	handler     MessageHandler
	opts        *SubscribeOptions
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	isRunning   atomic.Bool
	pool        *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	ctx, cancel := context.WithCancel(ctx)

	pool, err := ants.NewPool(opts.WorkerCount, ants.WithOptions(ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    false,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Subscriber{
		connManager: connManager,
		chManager:   NewChannelManager(ctx, connManager),
		handler:     handler,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		pool:        pool,
	}, nil
}

func (s *Subscriber) Start() error {
	if s.isRunning.Swap(true) {
		return fmt.Errorf("subscriber is already running")
	}

	s.wg.Add(1)
	go s.run()

	return nil
}

func (s *Subscriber) run() {
	defer s.wg.Done()

	for s.isRunning.Load() {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if err := s.consume(); err != nil {
			logger.Warning.Printf("Consume error on %s: %v\n", s.opts.QueueName, err)
			time.Sleep(s.opts.RetryDelay)
		}
	}
}

func (s *Subscriber) consume() error {
	ch, err := s.chManager.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	cfg := DefaultQueueConfig()
	q, err := ch.QueueDeclare(s.opts.QueueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	consumerName := fmt.Sprintf("%s-%d", s.opts.ConsumerName, time.Now().Unix())
	msgs, err := ch.ConsumeWithContext(s.ctx, q.Name, consumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for msg := range msgs {
		msgCopy := msg
		if err := s.pool.Submit(func() { s.processMessage(&msgCopy) }); err != nil {
			logger.Error.Printf("Failed to submit message to pool: %v\n", err)
		}
	}

	return nil
}

func (s *Subscriber) processMessage(msg *amqp.Delivery) {
	retryCount := s.getRetryCount(msg)

	if err := s.handler(msg); err != nil {
		logger.Warning.Printf("Handler error on %s (attempt %d): %v\n", s.opts.QueueName, retryCount+1, err)

		if retryCount >= s.opts.MaxRetryAttempts {
			s.parkMessage(msg, err)
			return
		}

		if reErr := s.republishWithDelay(msg, retryCount+1); reErr != nil {
			logger.Error.Printf("Failed to republish message: %v\n", reErr)
			_ = msg.Nack(false, true)
			return
		}
		_ = msg.Ack(false)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error.Printf("Failed to acknowledge message: %v\n", err)
	}
}

func (s *Subscriber) getRetryCount(msg *amqp.Delivery) int {
	if msg.Headers == nil {
		return 0
	}
	switch v := msg.Headers["x-retry-count"].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return 0
}

func (s *Subscriber) republishWithDelay(msg *amqp.Delivery, retryCount int) error {
	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers["x-retry-count"] = retryCount

	publishing := amqp.Publishing{
		Headers:      msg.Headers,
		ContentType:  msg.ContentType,
		DeliveryMode: msg.DeliveryMode,
		MessageId:    msg.MessageId,
		Timestamp:    msg.Timestamp,
		Body:         msg.Body,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(s.opts.RetryDelay)
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			timer.Stop()
			return
		}

		ch, err := s.chManager.GetChannel()
		if err != nil {
			logger.Error.Printf("Failed to get channel after delay: %v\n", err)
			return
		}
		if err := ch.PublishWithContext(s.ctx, "", s.opts.QueueName, false, false, publishing); err != nil {
			logger.Error.Printf("Failed to republish message after delay: %v\n", err)
		}
	}()

	return nil
}

func (s *Subscriber) parkMessage(msg *amqp.Delivery, cause error) {
	if !s.opts.EnableDeadLetter {
		_ = msg.Reject(false)
		return
	}

	ch, err := s.chManager.GetChannel()
	if err != nil {
		logger.Error.Printf("Failed to get channel for dead letter: %v\n", err)
		_ = msg.Nack(false, true)
		return
	}

	cfg := DefaultQueueConfig()
	if _, err := ch.QueueDeclare(s.opts.DeadLetterName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args); err != nil {
		logger.Error.Printf("Failed to declare dead letter queue: %v\n", err)
		_ = msg.Nack(false, true)
		return
	}

	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers["x-death-reason"] = cause.Error()
	msg.Headers["x-death-time"] = time.Now().Format(time.RFC3339)
	msg.Headers["x-death-queue"] = s.opts.QueueName

	publishing := amqp.Publishing{
		Headers:      msg.Headers,
		ContentType:  msg.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.MessageId,
		Timestamp:    msg.Timestamp,
		Body:         msg.Body,
	}

	if err := ch.PublishWithContext(s.ctx, "", s.opts.DeadLetterName, false, false, publishing); err != nil {
		logger.Error.Printf("Failed to publish to dead letter queue: %v\n", err)
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

func (s *Subscriber) Stop() error {
	if !s.isRunning.Swap(false) {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	s.pool.Release()
	return s.chManager.Close()
}
