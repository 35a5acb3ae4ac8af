package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/AlanGiacomini/orders-api/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	amqp "github.com/rabbitmq/amqp091-go"
)

var messagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_messages_total",
		Help: "Status messages consumed, by outcome",
	},
	[]string{"outcome"}, // applied | requeued | poison
)

// HandlerFunc processes a decoded status change. A non-nil error means a
// retryable fault: the delivery is requeued instead of acknowledged.
type HandlerFunc func(ctx context.Context, msg usecase.StatusChangeMsg) error

// Consumer is the worker's consume loop. It owns its connection: on any
// broker failure it waits a fixed backoff and redials, indefinitely.
type Consumer struct {
	URL         string
	Handler     HandlerFunc
	Log         *slog.Logger
	Prefetch    int
	CallTimeout time.Duration
	Backoff     time.Duration
}

func NewConsumer(url string, h HandlerFunc, log *slog.Logger) *Consumer {
	return &Consumer{
		URL:     url,
		Handler: h,
		Log:     log,
		// prefetch 1 keeps per-order FIFO intact with a single instance
		Prefetch:    1,
		CallTimeout: 30 * time.Second,
		Backoff:     5 * time.Second,
	}
}

// Run blocks until ctx is cancelled. Transient broker failures never
// terminate it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := c.consume(ctx); err != nil {
			c.Log.Error("consume loop failed, reconnecting", "error", err, "backoff", c.Backoff.String())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.Backoff):
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := DeclareStatusQueue(ch); err != nil {
		return err
	}

	// fair dispatch
	if err := ch.Qos(c.Prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		StatusUpdatesQueue,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	c.Log.Info("consuming", "queue", StatusUpdatesQueue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var msg usecase.StatusChangeMsg
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.Log.Error("bad message payload, dropping", "error", err, "body", string(d.Body))
		_ = d.Nack(false, false) // drop poison, never requeue
		messagesConsumed.WithLabelValues("poison").Inc()
		return
	}

	hctx, cancel := context.WithTimeout(ctx, c.CallTimeout)
	err := c.Handler(hctx, msg)
	cancel()

	if err != nil {
		// Retryable fault: leave the message to the broker for redelivery.
		c.Log.Error("handler failed, requeueing", "error", err, "order_number", msg.OrderNumber)
		_ = d.Nack(false, true)
		messagesConsumed.WithLabelValues("requeued").Inc()
		return
	}

	_ = d.Ack(false)
	messagesConsumed.WithLabelValues("applied").Inc()
}
