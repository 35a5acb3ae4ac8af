package usecase

import "time"

// StatusChangeMsg is the wire contract of the order_status_updates queue.
// It is immutable once enqueued.
type StatusChangeMsg struct {
	OrderNumber string    `json:"order_number"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	RequestedAt time.Time `json:"requested_at"`
	RequestedBy string    `json:"requested_by"`
	Notes       string    `json:"notes,omitempty"`
}

// PaymentConfirmedMsg is published by the payment gateway on Kafka.
type PaymentConfirmedMsg struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"` // e.g. "CONFIRMED"
	PaymentID   string `json:"payment_id"`
}
