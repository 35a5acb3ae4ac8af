package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/AlanGiacomini/orders-api/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

// StatusUpdatesQueue is the durable channel between API and worker.
const StatusUpdatesQueue = "order_status_updates"

// DeclareStatusQueue declares the queue with the wire-contract flags:
// durable, no auto-delete. Safe to call from both producer and consumer.
func DeclareStatusQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		StatusUpdatesQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// RabbitProducer implements usecase.StatusQueue.
type RabbitProducer struct {
	ch *amqp.Channel
}

// NewRabbitProducer declares the queue once at startup and switches the
// channel into confirm mode so publishes can wait for broker acceptance.
func NewRabbitProducer(ch *amqp.Channel) (*RabbitProducer, error) {
	if _, err := DeclareStatusQueue(ch); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitProducer{ch: ch}, nil
}

// PublishStatusChange sends the message to the status queue via the default
// exchange. It returns nil only after the broker confirms it has durably
// accepted the message; the caller's 202 depends on that.
func (p *RabbitProducer) PublishStatusChange(ctx context.Context, msg usecase.StatusChangeMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Timestamp:    msg.RequestedAt,
		Body:         body,
	}

	conf, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		"",                 // default exchange
		StatusUpdatesQueue, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		pub,
	)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await publish confirm: %w", err)
	}
	if !acked {
		return errors.New("broker rejected status change message")
	}
	return nil
}

var _ usecase.StatusQueue = (*RabbitProducer)(nil)
