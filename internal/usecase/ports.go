package usecase

import (
	"context"
	"time"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
)

// OrderFilters narrows List; zero values mean "no filter".
type OrderFilters struct {
	ID          int64
	CustomerID  int64
	OrderNumber string
	Status      domain.Status
	DateFrom    time.Time
	DateTo      time.Time
	MinValue    float64
	MaxValue    float64
	HasMinValue bool
	HasMaxValue bool
}

// OrderSummary aggregates the whole order book.
type OrderSummary struct {
	TotalOrders       int64
	TotalValue        float64
	AverageOrderValue float64
	StatusBreakdown   map[domain.Status]int64
}

// AuditEntry is one append-only row in the notification log.
type AuditEntry struct {
	OrderID   int64
	OldStatus domain.Status
	NewStatus domain.Status
	Message   string
	Level     string
	Context   map[string]any
	CreatedAt time.Time
}

// OrderRepo is the persistence port for orders. Lookups return (nil, nil)
// when no row matches.
type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) (int64, error)
	FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	List(ctx context.Context, f OrderFilters) ([]domain.Order, error)
	Summary(ctx context.Context) (*OrderSummary, error)
	// UpdateStatusIf performs a compare-and-set on the status column and
	// reports whether a row was actually updated.
	UpdateStatusIf(ctx context.Context, orderNumber string, from, to domain.Status) (bool, error)
}

// CustomerRepo is the persistence port for customers. Lookups return
// (nil, nil) when no row matches.
type CustomerRepo interface {
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindByDocument(ctx context.Context, document string) (*domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) (int64, error)
}

// AuditLog appends structured events; rows are never mutated afterwards.
type AuditLog interface {
	Append(ctx context.Context, e AuditEntry) (int64, error)
}

// StatusQueue hands a status change off to the durable broker. Publish must
// only return nil once the broker has durably accepted the message.
type StatusQueue interface {
	PublishStatusChange(ctx context.Context, msg StatusChangeMsg) error
}

// Notifier delivers (or simulates delivering) a customer-facing notification.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, customer *domain.Customer, orderNumber string, newStatus domain.Status) error
}
