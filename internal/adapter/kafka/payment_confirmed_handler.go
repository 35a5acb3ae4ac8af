package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
)

const paymentActor = "payment-gateway"

// PaymentConfirmedHandler turns a confirmed payment into a PAID transition
// request through the same validated produce path the API uses.
type PaymentConfirmedHandler struct {
	request *usecase.RequestStatusChange
	log     *slog.Logger
}

func NewPaymentConfirmedHandler(request *usecase.RequestStatusChange, log *slog.Logger) *PaymentConfirmedHandler {
	return &PaymentConfirmedHandler{request: request, log: log}
}

func (h *PaymentConfirmedHandler) Handle(ctx context.Context, ev usecase.PaymentConfirmedMsg) error {
	if ev.Status != "CONFIRMED" {
		h.log.Info("ignoring non-confirmed payment event", "order_number", ev.OrderNumber, "status", ev.Status)
		return nil
	}

	_, err := h.request.Execute(ctx, usecase.RequestStatusChangeInput{
		OrderNumber: ev.OrderNumber,
		NewStatus:   domain.StatusPaid,
		Notes:       fmt.Sprintf("payment %s confirmed", ev.PaymentID),
		Actor:       paymentActor,
	})
	if errors.Is(err, usecase.ErrOrderNotFound) || errors.Is(err, usecase.ErrInvalidTransition) {
		// Data-level rejection: retrying the event cannot fix it.
		h.log.Warn("dropping payment event", "error", err, "order_number", ev.OrderNumber)
		return nil
	}
	return err
}
