package serverApp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	database "xtopay-checkout/internal/pkg/db"
	"xtopay-checkout/internal/pkg/helper"
	"xtopay-checkout/internal/pkg/logger"
	"xtopay-checkout/internal/pkg/rabbitmq"
	"xtopay-checkout/internal/pkg/redis"
	"xtopay-checkout/internal/pkg/webhook"
	paymentService "xtopay-checkout/internal/service/payment"

	"github.com/panjf2000/ants"
	amqp "github.com/rabbitmq/amqp091-go"
)

// InitWorker starts the background consumers. The webhook worker drains the
// outcome queue and delivers signed notifications to the merchant endpoint;
// with no webhook URL configured the queue is left alone.
func InitWorker(
	ctx context.Context,
	redisClient redis.IRedis,
	db *database.Database,
	rb *rabbitmq.ConnectionManager,
	sender *webhook.Sender,
) {
	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(100, ants.WithOptions(poolOpts))
	if err != nil {
		panic(fmt.Errorf("failed to create worker pool: %w", err))
	}
	defer pool.Release()

	if sender == nil || !sender.Enabled() {
		logger.Info.Println("Webhook delivery disabled: no MERCHANT_WEBHOOK_URL configured")
		return
	}

	subscriber, err := rabbitmq.NewSubscriber(ctx, rb, outcomeHandler(ctx, sender), rabbitmq.DefaultSubscribeOptions(paymentService.OutcomeQueue))
	if err != nil {
		panic(fmt.Errorf("failed to create outcome subscriber: %w", err))
	}

	err = pool.Submit(func() {
		if err := subscriber.Start(); err != nil {
			logger.Error.Printf("Failed to start outcome subscriber: %v\n", err)
		}
	})
	if err != nil {
		panic(fmt.Errorf("failed to submit task to pool: %w", err))
	}

	<-ctx.Done()
	if err := subscriber.Stop(); err != nil {
		logger.Warning.Printf("Failed to stop outcome subscriber: %v\n", err)
	}
}

// outcomeHandler unpacks the pubsub envelope and forwards the outcome event
// body to the merchant, re-signed as its own payload.
func outcomeHandler(ctx context.Context, sender *webhook.Sender) rabbitmq.MessageHandler {
	return func(msg *amqp.Delivery) error {
		var envelope rabbitmq.PubsubBody
		if err := json.Unmarshal(msg.Body, &envelope); err != nil {
			return fmt.Errorf("malformed outcome message %s: %w", msg.MessageId, err)
		}

		event, err := helper.JSONToStruct[paymentService.OutcomeEvent](envelope.Data)
		if err != nil {
			return fmt.Errorf("malformed outcome event %s: %w", msg.MessageId, err)
		}

		payload, err := helper.JSONToByte(event)
		if err != nil {
			return fmt.Errorf("failed to re-encode outcome event: %w", err)
		}

		if err := sender.Send(ctx, payload); err != nil {
			return err
		}

		logger.Info.Printf("Delivered outcome webhook for message %s", envelope.ID)
		return nil
	}
}
