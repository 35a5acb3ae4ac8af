package usecase

import (
	"context"
	"fmt"
	"time"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
)

const DefaultActor = "system"

type RequestStatusChangeInput struct {
	OrderNumber string
	NewStatus   domain.Status
	Notes       string
	Actor       string
}

// RequestStatusChangeOutput acknowledges the hand-off only. The mutation
// happens later, in the worker.
type RequestStatusChangeOutput struct {
	OrderNumber string
	OldStatus   domain.Status
	NewStatus   domain.Status
}

// RequestStatusChange validates a transition request and enqueues it.
// It never writes to the order store.
type RequestStatusChange struct {
	orders OrderRepo
	queue  StatusQueue
}

func NewRequestStatusChange(orders OrderRepo, queue StatusQueue) *RequestStatusChange {
	return &RequestStatusChange{orders: orders, queue: queue}
}

func (uc *RequestStatusChange) Execute(ctx context.Context, in RequestStatusChangeInput) (RequestStatusChangeOutput, error) {
	order, err := uc.orders.FindByNumber(ctx, in.OrderNumber)
	if err != nil {
		return RequestStatusChangeOutput{}, fmt.Errorf("find order %s: %w", in.OrderNumber, err)
	}
	if order == nil {
		return RequestStatusChangeOutput{}, ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(in.NewStatus) {
		return RequestStatusChangeOutput{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, in.NewStatus)
	}

	actor := in.Actor
	if actor == "" {
		actor = DefaultActor
	}

	msg := StatusChangeMsg{
		OrderNumber: order.OrderNumber,
		OldStatus:   order.Status.String(),
		NewStatus:   in.NewStatus.String(),
		RequestedAt: time.Now().UTC(),
		RequestedBy: actor,
		Notes:       in.Notes,
	}

	if err := uc.queue.PublishStatusChange(ctx, msg); err != nil {
		return RequestStatusChangeOutput{}, fmt.Errorf("publish status change: %w", err)
	}

	return RequestStatusChangeOutput{
		OrderNumber: order.OrderNumber,
		OldStatus:   order.Status,
		NewStatus:   in.NewStatus,
	}, nil
}
