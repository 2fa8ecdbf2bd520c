package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/resto-backoffice/internal/infrastructure/store"
)

// MockStockAdjuster keeps per-product stock levels in memory and records
// every adjustment. Decrement honors the same sufficiency guard as the
// Postgres implementation.
type MockStockAdjuster struct {
	mu    sync.Mutex
	stock map[string]int

	// Forced failures
	DecrementErr error
	IncrementErr error
	// FailIncrementFor makes Increment fail for one specific product id,
	// for partial-restore scenarios.
	FailIncrementFor string

	// Call recording
	DecrementCalls []AdjustCall
	IncrementCalls []AdjustCall
}

// AdjustCall records parameters passed to Decrement or Increment
type AdjustCall struct {
	ProductID string
	Quantity  int
}

func NewMockStockAdjuster() *MockStockAdjuster {
	return &MockStockAdjuster{stock: make(map[string]int)}
}

// SetStock seeds a product's stock level.
func (m *MockStockAdjuster) SetStock(productID string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock[productID] = quantity
}

// Stock returns the current stock level for a product.
func (m *MockStockAdjuster) Stock(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[productID]
}

func (m *MockStockAdjuster) Decrement(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DecrementErr != nil {
		return m.DecrementErr
	}
	current, ok := m.stock[productID]
	if !ok {
		return fmt.Errorf("%w: unknown product %s", store.ErrStockAdjustment, productID)
	}
	if current < quantity {
		return fmt.Errorf("%w: product %s, requested %d", store.ErrInsufficientStock, productID, quantity)
	}
	m.stock[productID] = current - quantity
	m.DecrementCalls = append(m.DecrementCalls, AdjustCall{ProductID: productID, Quantity: quantity})
	return nil
}

func (m *MockStockAdjuster) Increment(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IncrementErr != nil {
		return m.IncrementErr
	}
	if m.FailIncrementFor == productID {
		return fmt.Errorf("%w: product %s", store.ErrStockAdjustment, productID)
	}
	if _, ok := m.stock[productID]; !ok {
		return fmt.Errorf("%w: unknown product %s", store.ErrStockAdjustment, productID)
	}
	m.stock[productID] += quantity
	m.IncrementCalls = append(m.IncrementCalls, AdjustCall{ProductID: productID, Quantity: quantity})
	return nil
}
