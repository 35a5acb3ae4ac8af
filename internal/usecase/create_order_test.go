package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
)

func TestCreateOrder_ComputesTotalAndPersists(t *testing.T) {
	orders := newFakeOrderRepo()
	customers := newFakeCustomerRepo()
	uc := NewCreateOrder(orders, customers)

	out, err := uc.Execute(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Name: "Ana", Document: "123", Email: "ana@example.com"},
		Items: []ItemInput{
			{ProductName: "Widget", Quantity: 2, UnitValue: 10},
			{ProductName: "Gadget", Quantity: 1, UnitValue: 3.5},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.TotalValue != 23.5 {
		t.Errorf("total = %v, want 23.5", out.TotalValue)
	}
	if out.Status != domain.StatusPending {
		t.Errorf("new orders start PENDING, got %s", out.Status)
	}
	if !regexp.MustCompile(`^ORD-\w+$`).MatchString(out.OrderNumber) {
		t.Errorf("bad order number %q", out.OrderNumber)
	}

	stored, _ := orders.FindByNumber(context.Background(), out.OrderNumber)
	if stored == nil {
		t.Fatal("order not persisted")
	}
	if stored.TotalValue != 23.5 {
		t.Errorf("persisted total = %v, want 23.5", stored.TotalValue)
	}
	items, _ := orders.ItemsByOrderID(context.Background(), stored.ID)
	if len(items) != 2 {
		t.Errorf("persisted %d items, want 2", len(items))
	}
}

func TestCreateOrder_ReusesCustomerByDocument(t *testing.T) {
	orders := newFakeOrderRepo()
	customers := newFakeCustomerRepo()
	customers.put(domain.Customer{ID: 42, Name: "Ana", Document: "123", Email: "ana@example.com"})
	uc := NewCreateOrder(orders, customers)

	out, err := uc.Execute(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Name: "Ana Maria", Document: "123", Email: "other@example.com"},
		Items:    []ItemInput{{ProductName: "Widget", Quantity: 1, UnitValue: 5}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Customer.ID != 42 {
		t.Errorf("customer id = %d, want existing 42", out.Customer.ID)
	}
	if len(customers.created) != 0 {
		t.Error("must not create a duplicate customer")
	}
}

func TestCreateOrder_CreatesCustomerWhenUnknown(t *testing.T) {
	orders := newFakeOrderRepo()
	customers := newFakeCustomerRepo()
	uc := NewCreateOrder(orders, customers)

	out, err := uc.Execute(context.Background(), CreateOrderInput{
		Customer: CustomerInput{Name: "Bruno", Document: "999", Email: "bruno@example.com"},
		Items:    []ItemInput{{ProductName: "Widget", Quantity: 1, UnitValue: 5}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(customers.created) != 1 {
		t.Fatalf("created %d customers, want 1", len(customers.created))
	}
	if out.Customer.ID == 0 {
		t.Error("created customer must carry the new id")
	}
}

func TestCreateOrder_RejectsBadItems(t *testing.T) {
	uc := NewCreateOrder(newFakeOrderRepo(), newFakeCustomerRepo())

	cases := []struct {
		name  string
		items []ItemInput
		want  error
	}{
		{"no items", nil, domain.ErrNoItems},
		{"zero quantity", []ItemInput{{ProductName: "W", Quantity: 0, UnitValue: 1}}, domain.ErrInvalidQuantity},
		{"negative value", []ItemInput{{ProductName: "W", Quantity: 1, UnitValue: -1}}, domain.ErrInvalidValue},
	}
	for _, c := range cases {
		_, err := uc.Execute(context.Background(), CreateOrderInput{
			Customer: CustomerInput{Name: "Ana", Document: "123"},
			Items:    c.items,
		})
		if !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestNewOrderNumber(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9a-f]{12}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := NewOrderNumber()
		if !re.MatchString(n) {
			t.Fatalf("bad format %q", n)
		}
		if seen[n] {
			t.Fatalf("duplicate order number %q", n)
		}
		seen[n] = true
	}
}
