package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
	"github.com/google/uuid"
)

type CreateOrderInput struct {
	Customer CustomerInput
	Items    []ItemInput
}

type CustomerInput struct {
	ID       int64
	Name     string
	Document string
	Email    string
	Phone    string
}

type ItemInput struct {
	ProductName string
	Quantity    int
	UnitValue   float64
}

type CreateOrderOutput struct {
	OrderNumber string
	Status      domain.Status
	TotalValue  float64
	Customer    *domain.Customer
	Items       []domain.OrderItem
	CreatedAt   time.Time
}

type CreateOrder struct {
	orders    OrderRepo
	customers CustomerRepo
}

func NewCreateOrder(orders OrderRepo, customers CustomerRepo) *CreateOrder {
	return &CreateOrder{orders: orders, customers: customers}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, domain.OrderItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitValue:   it.UnitValue,
		})
	}
	if err := domain.ValidateItems(items); err != nil {
		return CreateOrderOutput{}, err
	}

	customer, err := uc.resolveCustomer(ctx, in.Customer)
	if err != nil {
		return CreateOrderOutput{}, err
	}

	order := &domain.Order{
		CustomerID:  customer.ID,
		OrderNumber: NewOrderNumber(),
		Status:      domain.StatusPending,
		TotalValue:  domain.OrderTotal(items),
		CreatedAt:   time.Now(),
	}

	orderID, err := uc.orders.Create(ctx, order, items)
	if err != nil {
		return CreateOrderOutput{}, fmt.Errorf("create order: %w", err)
	}
	order.ID = orderID

	return CreateOrderOutput{
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TotalValue:  order.TotalValue,
		Customer:    customer,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}, nil
}

// resolveCustomer reuses an existing customer by id, then by document, and
// only creates a new row when neither matches.
func (uc *CreateOrder) resolveCustomer(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	if in.ID > 0 {
		c, err := uc.customers.FindByID(ctx, in.ID)
		if err != nil {
			return nil, fmt.Errorf("find customer by id: %w", err)
		}
		if c != nil {
			return c, nil
		}
	}

	c, err := uc.customers.FindByDocument(ctx, in.Document)
	if err != nil {
		return nil, fmt.Errorf("find customer by document: %w", err)
	}
	if c != nil {
		return c, nil
	}

	created := &domain.Customer{
		Name:     in.Name,
		Document: in.Document,
		Email:    in.Email,
		Phone:    in.Phone,
	}
	id, err := uc.customers.Create(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	created.ID = id
	return created, nil
}

// NewOrderNumber generates the externally visible business key.
func NewOrderNumber() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return "ORD-" + token
}
