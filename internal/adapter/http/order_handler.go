package http

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/AlanGiacomini/orders-api/internal/adapter/http/middleware"
	domain "github.com/AlanGiacomini/orders-api/internal/entity"
	"github.com/AlanGiacomini/orders-api/internal/logging"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

var orderNumberRe = regexp.MustCompile(`^ORD-\w+$`)

type OrderHandler struct {
	create    *usecase.CreateOrder
	request   *usecase.RequestStatusChange
	orders    usecase.OrderRepo
	customers usecase.CustomerRepo
}

func NewOrderHandler(create *usecase.CreateOrder, request *usecase.RequestStatusChange, orders usecase.OrderRepo, customers usecase.CustomerRepo) *OrderHandler {
	return &OrderHandler{create: create, request: request, orders: orders, customers: customers}
}

type createOrderReq struct {
	Customer struct {
		ID       int64  `json:"id"`
		Name     string `json:"name" binding:"required"`
		Document string `json:"document" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone"`
	} `json:"customer" binding:"required"`

	Order struct {
		Items []struct {
			ProductName string  `json:"product_name" binding:"required"`
			Quantity    int     `json:"quantity" binding:"required,gte=1"`
			UnitValue   float64 `json:"unit_value" binding:"gte=0"`
		} `json:"items" binding:"required,min=1,dive"`
	} `json:"order" binding:"required"`
}

type customerResp struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type itemResp struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitValue   float64 `json:"unit_value"`
	TotalValue  float64 `json:"total_value"`
}

type orderResp struct {
	OrderID     string       `json:"order_id"`
	OrderNumber string       `json:"order_number"`
	Status      string       `json:"status"`
	TotalValue  float64      `json:"total_value"`
	Customer    customerResp `json:"customer"`
	Items       []itemResp   `json:"items"`
	CreatedAt   time.Time    `json:"created_at"`
}

// CreateOrder handles POST /orders: resolve-or-create the customer, compute
// the total, persist order plus items, answer 201.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "detail": err.Error()})
		return
	}

	items := make([]usecase.ItemInput, 0, len(req.Order.Items))
	for _, it := range req.Order.Items {
		items = append(items, usecase.ItemInput{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitValue:   it.UnitValue,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateOrderInput{
		Customer: usecase.CustomerInput{
			ID:       req.Customer.ID,
			Name:     req.Customer.Name,
			Document: req.Customer.Document,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
		},
		Items: items,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoItems) || errors.Is(err, domain.ErrInvalidQuantity) || errors.Is(err, domain.ErrInvalidValue) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		logging.From(c).Error("create order failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, toOrderResp(out.OrderNumber, out.Status, out.TotalValue, out.CreatedAt, out.Customer, out.Items))
}

// GetOrder handles GET /orders/:order_number.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	number := c.Param("order_number")
	if !orderNumberRe.MatchString(number) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid order_number format"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	order, err := h.orders.FindByNumber(ctx, number)
	if err != nil {
		logging.From(c).Error("get order failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	resp, err := h.orderDetail(ctx, order)
	if err != nil {
		logging.From(c).Error("load order detail failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOrders handles GET /orders with optional filters.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.List(ctx, filters)
	if err != nil {
		logging.From(c).Error("list orders failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := make([]orderResp, 0, len(orders))
	for i := range orders {
		detail, err := h.orderDetail(ctx, &orders[i])
		if err != nil {
			logging.From(c).Error("load order detail failed", "error", err, "order_number", orders[i].OrderNumber)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		resp = append(resp, detail)
	}
	c.JSON(http.StatusOK, resp)
}

// Summary handles GET /orders/summary.
func (h *OrderHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	s, err := h.orders.Summary(ctx)
	if err != nil {
		logging.From(c).Error("summary failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	breakdown := make(map[string]int64, len(s.StatusBreakdown))
	for status, count := range s.StatusBreakdown {
		breakdown[status.String()] = count
	}
	c.JSON(http.StatusOK, gin.H{
		"total_orders":        s.TotalOrders,
		"total_value":         s.TotalValue,
		"average_order_value": s.AverageOrderValue,
		"status_breakdown":    breakdown,
	})
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateStatus handles PUT /orders/:order_number/status. The 202 means the
// change was durably queued, not that it has been applied.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	number := c.Param("order_number")
	if !orderNumberRe.MatchString(number) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid order_number format"})
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "detail": err.Error()})
		return
	}

	newStatus, err := domain.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.request.Execute(ctx, usecase.RequestStatusChangeInput{
		OrderNumber: number,
		NewStatus:   newStatus,
		Notes:       req.Notes,
		Actor:       c.GetString(middleware.SubjectKey),
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, usecase.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logging.From(c).Error("status change request failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":      "status change accepted for processing",
		"order_number": out.OrderNumber,
		"old_status":   out.OldStatus.String(),
		"new_status":   out.NewStatus.String(),
	})
}

func (h *OrderHandler) orderDetail(ctx context.Context, order *domain.Order) (orderResp, error) {
	customer, err := h.customers.FindByID(ctx, order.CustomerID)
	if err != nil {
		return orderResp{}, err
	}
	items, err := h.orders.ItemsByOrderID(ctx, order.ID)
	if err != nil {
		return orderResp{}, err
	}
	return toOrderResp(order.OrderNumber, order.Status, order.TotalValue, order.CreatedAt, customer, items), nil
}

func toOrderResp(number string, status domain.Status, total float64, createdAt time.Time, customer *domain.Customer, items []domain.OrderItem) orderResp {
	resp := orderResp{
		OrderID:     number,
		OrderNumber: number,
		Status:      status.String(),
		TotalValue:  total,
		Items:       make([]itemResp, 0, len(items)),
		CreatedAt:   createdAt,
	}
	if customer != nil {
		resp.Customer = customerResp{
			ID:       customer.ID,
			Name:     customer.Name,
			Document: customer.Document,
			Email:    customer.Email,
			Phone:    customer.Phone,
		}
	}
	for _, it := range items {
		resp.Items = append(resp.Items, itemResp{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitValue:   it.UnitValue,
			TotalValue:  it.TotalValue(),
		})
	}
	return resp
}

func parseFilters(c *gin.Context) (usecase.OrderFilters, error) {
	var f usecase.OrderFilters

	if v := c.Query("id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 1 {
			return f, errors.New("id must be a positive integer")
		}
		f.ID = id
	}
	if v := c.Query("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id < 1 {
			return f, errors.New("customer_id must be a positive integer")
		}
		f.CustomerID = id
	}
	if v := c.Query("order_number"); v != "" {
		if !orderNumberRe.MatchString(v) {
			return f, errors.New("invalid order_number format")
		}
		f.OrderNumber = v
	}
	if v := c.Query("status"); v != "" {
		status, err := domain.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = status
	}
	if v := c.Query("date_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, errors.New("date_from must be a date or RFC3339 timestamp")
		}
		f.DateFrom = t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, errors.New("date_to must be a date or RFC3339 timestamp")
		}
		f.DateTo = t
	}
	if v := c.Query("min_value"); v != "" {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil || val < 0 {
			return f, errors.New("min_value must be a non-negative number")
		}
		f.MinValue = val
		f.HasMinValue = true
	}
	if v := c.Query("max_value"); v != "" {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil || val < 0 {
			return f, errors.New("max_value must be a non-negative number")
		}
		f.MaxValue = val
		f.HasMaxValue = true
	}
	return f, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
