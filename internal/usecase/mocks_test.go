package usecase

import (
	"context"
	"sync"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
)

// fakeOrderRepo is an in-memory OrderRepo keyed by order number.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	items  map[int64][]domain.OrderItem
	nextID int64

	findErr   error
	createErr error
	casErr    error
	casCalls  int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]*domain.Order{},
		items:  map[int64][]domain.OrderItem{},
	}
}

func (f *fakeOrderRepo) put(o domain.Order) {
	f.nextID++
	o.ID = f.nextID
	f.orders[o.OrderNumber] = &o
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	cp := *o
	cp.ID = f.nextID
	f.orders[o.OrderNumber] = &cp
	f.items[cp.ID] = items
	return cp.ID, nil
}

func (f *fakeOrderRepo) FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	o, ok := f.orders[orderNumber]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID], nil
}

func (f *fakeOrderRepo) List(ctx context.Context, filters OrderFilters) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) Summary(ctx context.Context) (*OrderSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &OrderSummary{StatusBreakdown: map[domain.Status]int64{}}
	for _, o := range f.orders {
		s.TotalOrders++
		s.TotalValue += o.TotalValue
		s.StatusBreakdown[o.Status]++
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalValue / float64(s.TotalOrders)
	}
	return s, nil
}

func (f *fakeOrderRepo) UpdateStatusIf(ctx context.Context, orderNumber string, from, to domain.Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.casCalls++
	if f.casErr != nil {
		return false, f.casErr
	}
	o, ok := f.orders[orderNumber]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (f *fakeOrderRepo) status(orderNumber string) domain.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[orderNumber].Status
}

type fakeCustomerRepo struct {
	byID  map[int64]*domain.Customer
	byDoc map[string]*domain.Customer

	nextID    int64
	created   []*domain.Customer
	findErr   error
	createErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		byID:  map[int64]*domain.Customer{},
		byDoc: map[string]*domain.Customer{},
	}
}

func (f *fakeCustomerRepo) put(c domain.Customer) {
	f.byID[c.ID] = &c
	f.byDoc[c.Document] = &c
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byID[id], nil
}

func (f *fakeCustomerRepo) FindByDocument(ctx context.Context, document string) (*domain.Customer, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byDoc[document], nil
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *domain.Customer) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	cp := *c
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	f.byDoc[cp.Document] = &cp
	f.created = append(f.created, &cp)
	return cp.ID, nil
}

type fakeAuditLog struct {
	entries   []AuditEntry
	appendErr error
}

func (f *fakeAuditLog) Append(ctx context.Context, e AuditEntry) (int64, error) {
	if f.appendErr != nil {
		return 0, f.appendErr
	}
	f.entries = append(f.entries, e)
	return int64(len(f.entries)), nil
}

type fakeQueue struct {
	published  []StatusChangeMsg
	publishErr error
}

func (f *fakeQueue) PublishStatusChange(ctx context.Context, msg StatusChangeMsg) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeNotifier struct {
	notified  []string
	notifyErr error
}

func (f *fakeNotifier) NotifyStatusChange(ctx context.Context, customer *domain.Customer, orderNumber string, newStatus domain.Status) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notified = append(f.notified, orderNumber)
	return nil
}
