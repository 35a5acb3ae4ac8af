package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
)

type singleOrderRepo struct {
	order *domain.Order
}

func (r *singleOrderRepo) Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *singleOrderRepo) FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	if r.order != nil && r.order.OrderNumber == orderNumber {
		cp := *r.order
		return &cp, nil
	}
	return nil, nil
}

func (r *singleOrderRepo) ItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	return nil, nil
}

func (r *singleOrderRepo) List(ctx context.Context, f usecase.OrderFilters) ([]domain.Order, error) {
	return nil, nil
}

func (r *singleOrderRepo) Summary(ctx context.Context) (*usecase.OrderSummary, error) {
	return nil, errors.New("not implemented")
}

func (r *singleOrderRepo) UpdateStatusIf(ctx context.Context, orderNumber string, from, to domain.Status) (bool, error) {
	return false, errors.New("not implemented")
}

type captureQueue struct {
	published []usecase.StatusChangeMsg
	err       error
}

func (q *captureQueue) PublishStatusChange(ctx context.Context, msg usecase.StatusChangeMsg) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, msg)
	return nil
}

func paymentFixture(status domain.Status) (*captureQueue, *PaymentConfirmedHandler) {
	repo := &singleOrderRepo{order: &domain.Order{ID: 1, OrderNumber: "ORD-abc123", Status: status}}
	q := &captureQueue{}
	request := usecase.NewRequestStatusChange(repo, q)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return q, NewPaymentConfirmedHandler(request, log)
}

func TestPaymentConfirmed_ProducesPaidRequest(t *testing.T) {
	q, h := paymentFixture(domain.StatusWaitingPayment)

	err := h.Handle(context.Background(), usecase.PaymentConfirmedMsg{
		OrderNumber: "ORD-abc123",
		Status:      "CONFIRMED",
		PaymentID:   "pay_42",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.published) != 1 {
		t.Fatalf("published %d, want 1", len(q.published))
	}
	msg := q.published[0]
	if msg.NewStatus != "PAID" || msg.RequestedBy != paymentActor {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestPaymentConfirmed_IgnoresOtherStatuses(t *testing.T) {
	q, h := paymentFixture(domain.StatusWaitingPayment)

	if err := h.Handle(context.Background(), usecase.PaymentConfirmedMsg{
		OrderNumber: "ORD-abc123",
		Status:      "DECLINED",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.published) != 0 {
		t.Error("declined payments must not produce transitions")
	}
}

func TestPaymentConfirmed_DropsDataLevelRejections(t *testing.T) {
	// The order is already PAID: the transition is invalid, and retrying the
	// event cannot fix that, so the handler must swallow it.
	q, h := paymentFixture(domain.StatusPaid)

	if err := h.Handle(context.Background(), usecase.PaymentConfirmedMsg{
		OrderNumber: "ORD-abc123",
		Status:      "CONFIRMED",
		PaymentID:   "pay_42",
	}); err != nil {
		t.Fatalf("invalid transition must be dropped, got %v", err)
	}
	if len(q.published) != 0 {
		t.Error("nothing should be published")
	}

	// Unknown order: same treatment.
	q2, h2 := paymentFixture(domain.StatusWaitingPayment)
	if err := h2.Handle(context.Background(), usecase.PaymentConfirmedMsg{
		OrderNumber: "ORD-nobody",
		Status:      "CONFIRMED",
	}); err != nil {
		t.Fatalf("unknown order must be dropped, got %v", err)
	}
	if len(q2.published) != 0 {
		t.Error("nothing should be published for unknown orders")
	}
}

func TestPaymentConfirmed_BrokerFaultSurfaces(t *testing.T) {
	q, h := paymentFixture(domain.StatusWaitingPayment)
	q.err = errors.New("broker down")

	if err := h.Handle(context.Background(), usecase.PaymentConfirmedMsg{
		OrderNumber: "ORD-abc123",
		Status:      "CONFIRMED",
	}); err == nil {
		t.Fatal("broker fault must surface so the event is redelivered")
	}
}
