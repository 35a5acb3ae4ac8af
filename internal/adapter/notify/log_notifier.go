package notify

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
)

// LogNotifier simulates the customer notification channel: the contract is
// attempt-and-log, not guaranteed external delivery.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyStatusChange(ctx context.Context, customer *domain.Customer, orderNumber string, newStatus domain.Status) error {
	n.log.Info("notification_sent",
		"timestamp", time.Now().UTC().Format(time.RFC3339),
		"order_number", orderNumber,
		"email", customer.Email,
		"status", newStatus.String(),
	)
	return nil
}

var _ usecase.Notifier = (*LogNotifier)(nil)
