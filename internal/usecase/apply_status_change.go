package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
)

// ApplyStatusChange is the authoritative side of the pipeline: it re-validates
// each dequeued message against the current stored state and applies it with
// a compare-and-set.
//
// Execute returns a non-nil error only for retryable infrastructure faults;
// the caller must not acknowledge the message in that case. Every data-level
// problem (poison payload, unknown order, stale or duplicate transition) is
// logged and swallowed so the message can be acknowledged and discarded.
type ApplyStatusChange struct {
	orders    OrderRepo
	customers CustomerRepo
	audit     AuditLog
	notifier  Notifier
	log       *slog.Logger
}

func NewApplyStatusChange(orders OrderRepo, customers CustomerRepo, audit AuditLog, notifier Notifier, log *slog.Logger) *ApplyStatusChange {
	return &ApplyStatusChange{
		orders:    orders,
		customers: customers,
		audit:     audit,
		notifier:  notifier,
		log:       log,
	}
}

func (uc *ApplyStatusChange) Execute(ctx context.Context, msg StatusChangeMsg) error {
	newStatus, err := validateMsg(msg)
	if err != nil {
		uc.log.Error("discarding malformed message", "error", err, "order_number", msg.OrderNumber)
		return nil
	}

	log := uc.log.With("order_number", msg.OrderNumber, "new_status", newStatus.String())

	order, err := uc.orders.FindByNumber(ctx, msg.OrderNumber)
	if err != nil {
		return fmt.Errorf("find order %s: %w", msg.OrderNumber, err)
	}
	if order == nil {
		log.Error("discarding message for unknown order")
		return nil
	}

	// Duplicate delivery or terminal state: benign, not an error.
	if order.Status == newStatus {
		log.Info("status already applied, discarding duplicate")
		return nil
	}
	if order.Status.IsTerminal() {
		log.Info("order in terminal status, discarding", "status", order.Status.String())
		return nil
	}

	// The enqueued old_status may be stale; the stored status is the one
	// that counts.
	if !order.Status.CanTransitionTo(newStatus) {
		log.Warn("transition no longer valid, discarding", "status", order.Status.String())
		return nil
	}

	prev := order.Status
	applied, err := uc.orders.UpdateStatusIf(ctx, order.OrderNumber, prev, newStatus)
	if err != nil {
		return fmt.Errorf("update status of %s: %w", order.OrderNumber, err)
	}
	if !applied {
		log.Info("lost status race to a concurrent writer, discarding")
		return nil
	}

	// Past this point the transition is committed. Failures below are
	// inconsistencies to surface, never reasons to redeliver: a retry could
	// not re-apply the transition anyway.
	uc.appendTransitionAudit(ctx, log, order, prev, newStatus, msg)
	uc.notify(ctx, log, order, prev, newStatus, msg)

	log.Info("status change applied", "old_status", prev.String())
	return nil
}

func (uc *ApplyStatusChange) appendTransitionAudit(ctx context.Context, log *slog.Logger, order *domain.Order, oldStatus, newStatus domain.Status, msg StatusChangeMsg) {
	notes := msg.Notes
	if notes == "" {
		notes = "status updated by worker"
	}
	_, err := uc.audit.Append(ctx, AuditEntry{
		OrderID:   order.ID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Message:   fmt.Sprintf("Order %s changed from %s to %s. Notes: %s", order.OrderNumber, oldStatus, newStatus, notes),
		Level:     "INFO",
		Context: map[string]any{
			"order_id":   order.ID,
			"user_id":    msg.RequestedBy,
			"notes":      msg.Notes,
			"old_status": oldStatus.String(),
			"new_status": newStatus.String(),
			"created_at": msg.RequestedAt,
		},
		CreatedAt: msg.RequestedAt,
	})
	if err != nil {
		log.Error("inconsistency: status updated but audit append failed", "error", err)
	}
}

func (uc *ApplyStatusChange) notify(ctx context.Context, log *slog.Logger, order *domain.Order, oldStatus, newStatus domain.Status, msg StatusChangeMsg) {
	customer, err := uc.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		log.Error("inconsistency: status updated but customer lookup failed", "error", err, "customer_id", order.CustomerID)
		return
	}
	if customer == nil {
		log.Error("no customer for order, skipping notification", "customer_id", order.CustomerID)
		return
	}

	entry := AuditEntry{
		OrderID:   order.ID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Level:     "INFO",
		Context: map[string]any{
			"order_id": order.ID,
			"user_id":  msg.RequestedBy,
			"email":    customer.Email,
			"status":   newStatus.String(),
		},
		CreatedAt: msg.RequestedAt,
	}

	if err := uc.notifier.NotifyStatusChange(ctx, customer, order.OrderNumber, newStatus); err != nil {
		entry.Level = "ERROR"
		entry.Message = fmt.Sprintf("Notification to %s failed: %v", customer.Email, err)
		log.Error("notification attempt failed", "error", err, "email", customer.Email)
	} else {
		entry.Message = fmt.Sprintf("Notification sent to %s", customer.Email)
	}

	if _, err := uc.audit.Append(ctx, entry); err != nil {
		log.Error("audit append for notification failed", "error", err)
	}
}

// validateMsg enforces the required fields of the wire contract.
func validateMsg(msg StatusChangeMsg) (domain.Status, error) {
	if msg.OrderNumber == "" {
		return "", fmt.Errorf("%w: missing order_number", ErrMalformedMessage)
	}
	if msg.RequestedBy == "" {
		return "", fmt.Errorf("%w: missing requested_by", ErrMalformedMessage)
	}
	if msg.RequestedAt.IsZero() {
		return "", fmt.Errorf("%w: missing requested_at", ErrMalformedMessage)
	}
	if _, err := domain.ParseStatus(msg.OldStatus); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	newStatus, err := domain.ParseStatus(msg.NewStatus)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return newStatus, nil
}
