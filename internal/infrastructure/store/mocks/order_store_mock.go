package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/example/resto-backoffice/internal/order"
	"github.com/google/uuid"
)

// MockOrderStore is an in-memory OrderStore for testing. Write calls are
// recorded so tests can assert on sequencing, and individual operations can
// be forced to fail.
type MockOrderStore struct {
	mu     sync.Mutex
	orders map[string]order.Order
	items  map[string][]order.Item // order id -> items

	// Forced failures
	InsertErr     error
	InsertItemErr error
	// FailItemAfter forces InsertItem to fail once n items were inserted.
	FailItemAfter int
	UpdateErr     error
	DeleteErr     error
	ListErr       error

	// Call recording
	InsertCalls     []order.Order
	InsertItemCalls []order.Item
	UpdateCalls     []UpdateCall
	DeleteCalls     []string
}

// UpdateCall records parameters passed to Update
type UpdateCall struct {
	OrderID string
	Update  order.Update
}

func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{
		orders: make(map[string]order.Order),
		items:  make(map[string][]order.Item),
	}
}

// Seed adds an order with items without recording calls.
func (m *MockOrderStore) Seed(o order.Order, items []order.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	m.items[o.ID] = items
}

// Orders returns a snapshot of the stored orders keyed by id.
func (m *MockOrderStore) Orders() map[string]order.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]order.Order, len(m.orders))
	for id, o := range m.orders {
		out[id] = o
	}
	return out
}

func (m *MockOrderStore) List(ctx context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var orders []order.Order
	for _, o := range m.orders {
		orders = append(orders, order.Normalize(o))
	}
	return orders, nil
}

func (m *MockOrderStore) Get(ctx context.Context, orderID string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	normalized := order.Normalize(o)
	return &normalized, nil
}

func (m *MockOrderStore) GetItems(ctx context.Context, orderID string) ([]order.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[orderID], nil
}

func (m *MockOrderStore) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	m.orders[o.ID] = o
	m.InsertCalls = append(m.InsertCalls, o)
	return &o, nil
}

func (m *MockOrderStore) InsertItem(ctx context.Context, item order.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertItemErr != nil {
		return m.InsertItemErr
	}
	if m.FailItemAfter > 0 && len(m.InsertItemCalls) >= m.FailItemAfter {
		return order.ErrOrderNotFound
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	m.items[item.OrderID] = append(m.items[item.OrderID], item)
	m.InsertItemCalls = append(m.InsertItemCalls, item)
	return nil
}

func (m *MockOrderStore) Update(ctx context.Context, orderID string, update order.Update) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	o, ok := m.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if update.OrderNumber != nil {
		o.OrderNumber = *update.OrderNumber
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.PaymentMethod != nil {
		o.PaymentMethod = *update.PaymentMethod
	}
	if update.TotalAmount != nil {
		o.TotalAmount = *update.TotalAmount
	}
	m.orders[orderID] = o
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{OrderID: orderID, Update: update})
	normalized := order.Normalize(o)
	return &normalized, nil
}

func (m *MockOrderStore) Delete(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.orders[orderID]; !ok {
		return order.ErrOrderNotFound
	}
	delete(m.orders, orderID)
	delete(m.items, orderID)
	m.DeleteCalls = append(m.DeleteCalls, orderID)
	return nil
}
