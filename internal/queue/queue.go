// Package queue provides the durable FIFO queues connecting the pipeline
// stages. Queues are Redis lists: producers LPUSH JSON-encoded messages and
// consumers BRPOP them, giving at-least-once delivery across any number of
// competing worker instances.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// EventsQueue carries normalized telemetry events to the rule engine.
	EventsQueue = "events_queue"
	// NotificationsQueue carries dispatch jobs to the notifier.
	NotificationsQueue = "notifications_queue"

	// popTimeout bounds each blocking pop so consumers can observe shutdown.
	popTimeout = 5 * time.Second
	// reconnectDelay is how long a consumer waits after a transport error
	// before trying Redis again.
	reconnectDelay = 5 * time.Second
)

// Queue is a named Redis-list FIFO of JSON messages.
type Queue struct {
	client *redis.Client
	name   string
}

// NewQueue creates a queue handle for the given Redis list.
func NewQueue(client *redis.Client, name string) *Queue {
	return &Queue{
		client: client,
		name:   name,
	}
}

// Name returns the underlying Redis list name.
func (q *Queue) Name() string {
	return q.name
}

// Push serializes v to JSON and appends it to the queue.
func (q *Queue) Push(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message for %s: %w", q.name, err)
	}
	if err := q.client.LPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to push to %s: %w", q.name, err)
	}
	return nil
}

// Pop blocks for up to popTimeout waiting for the next message.
// Returns (nil, nil) when the wait times out with the queue empty.
func (q *Queue) Pop(ctx context.Context) ([]byte, error) {
	res, err := q.client.BRPop(ctx, popTimeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop from %s: %w", q.name, err)
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply from %s: %d elements", q.name, len(res))
	}
	return []byte(res[1]), nil
}

// Handler processes one raw message popped from a queue. A non-nil error is
// logged by the consumer; the message is not re-queued (crash-restart is the
// recovery mechanism, not in-process redelivery).
type Handler func(ctx context.Context, payload []byte) error

// Consumer drives a single blocking-pop worker loop over one queue.
type Consumer struct {
	queue   *Queue
	handler Handler
}

// NewConsumer creates a consumer for the given queue and handler.
func NewConsumer(q *Queue, handler Handler) *Consumer {
	return &Consumer{
		queue:   q,
		handler: handler,
	}
}

// Run consumes messages until the context is cancelled. Transport errors
// never terminate the loop: the consumer backs off and reconnects
// indefinitely.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("Starting queue consumer", "queue", c.queue.Name())

	for {
		select {
		case <-ctx.Done():
			slog.Info("Queue consumer stopped", "queue", c.queue.Name())
			return nil
		default:
		}

		payload, err := c.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("Queue consumer stopped", "queue", c.queue.Name())
				return nil
			}
			slog.Error("Failed to pop message, backing off",
				"queue", c.queue.Name(),
				"delay", reconnectDelay,
				"error", err,
			)
			select {
			case <-ctx.Done():
			case <-time.After(reconnectDelay):
			}
			continue
		}
		if payload == nil {
			// Timed out with nothing queued; loop around for a liveness check.
			continue
		}

		if err := c.handler(ctx, payload); err != nil {
			slog.Error("Failed to process message",
				"queue", c.queue.Name(),
				"error", err,
			)
		}
	}
}
