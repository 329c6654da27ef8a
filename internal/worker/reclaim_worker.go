package worker

import (
	"SwiftShare/config"
	"SwiftShare/internal/apperr"
	"SwiftShare/internal/mq"
	"SwiftShare/internal/task"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

type dlqMessage struct {
	UUID     string    `json:"uuid"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// RunReclaimWorker consumes reclaim tasks from RabbitMQ.
func RunReclaimWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.ReclaimPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueTasks,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.ReclaimConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.ReclaimBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.ReclaimRate
	var limiter *rate.Limiter
	if rateLimit <= 0 {
		limiter = rate.NewLimiter(rate.Inf, burst)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("reclaim worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleReclaimMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func handleReclaimMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg task.ReclaimMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("reclaim worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	if err := task.ProcessReclaim(ctx, msg.UUID); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if apperr.Retryable(err) {
			if err := scheduleRetry(ctx, client, msg, err); err != nil {
				log.Printf("reclaim worker: retry schedule failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		} else {
			if err := markFailed(ctx, client, msg, err); err != nil {
				log.Printf("reclaim worker: mark failed failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		}
	}

	_ = delivery.Ack(false)
}

func retryDelay(attempt int) time.Duration {
	delays := config.AppConfig.ReclaimRetryDelays
	if len(delays) == 0 {
		return 30 * time.Second
	}
	if attempt >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[attempt]
}

func scheduleRetry(ctx context.Context, client *mq.Client, msg task.ReclaimMessage, procErr error) error {
	maxRetry := config.AppConfig.ReclaimRetryMax
	if msg.Attempt >= maxRetry {
		return markFailed(ctx, client, msg, procErr)
	}
	next := task.ReclaimMessage{
		UUID:    msg.UUID,
		Attempt: msg.Attempt + 1,
	}
	body, err := json.Marshal(next)
	if err != nil {
		return err
	}
	log.Printf("reclaim worker: retry %s attempt %d: %v", msg.UUID, next.Attempt, procErr)
	return client.PublishRetry(ctx, body, retryDelay(msg.Attempt))
}

func markFailed(ctx context.Context, client *mq.Client, msg task.ReclaimMessage, procErr error) error {
	dlq := dlqMessage{
		UUID:     msg.UUID,
		Attempt:  msg.Attempt,
		Error:    procErr.Error(),
		FailedAt: time.Now(),
	}
	body, err := json.Marshal(dlq)
	if err != nil {
		return err
	}
	log.Printf("reclaim worker: giving up on %s: %v", msg.UUID, procErr)
	return client.PublishDLQ(ctx, body)
}
