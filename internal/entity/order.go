package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("item quantity must be positive")
	ErrInvalidValue    = errors.New("item unit value must not be negative")
	ErrNoItems         = errors.New("order must have at least one item")
)

type Order struct {
	ID          int64
	CustomerID  int64
	OrderNumber string // immutable business key, format ORD-<token>
	Status      Status
	TotalValue  float64
	CreatedAt   time.Time
}

type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductName string
	Quantity    int
	UnitValue   float64
}

// TotalValue is the item subtotal, quantity times unit value.
func (i OrderItem) TotalValue() float64 {
	return float64(i.Quantity) * i.UnitValue
}

type Customer struct {
	ID        int64
	Name      string
	Document  string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// ValidateItems checks item-level invariants before an order is created.
func ValidateItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if it.UnitValue < 0 {
			return ErrInvalidValue
		}
	}
	return nil
}

// OrderTotal sums the item subtotals.
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.TotalValue()
	}
	return total
}
