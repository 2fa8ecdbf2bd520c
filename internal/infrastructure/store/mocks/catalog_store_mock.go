package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/resto-backoffice/internal/catalog"
	"github.com/google/uuid"
)

// MockCatalogStore is an in-memory catalog.Store for testing.
type MockCatalogStore struct {
	mu       sync.Mutex
	products map[string]catalog.Product // id -> product

	// Forced failures
	FindErr   error
	InsertErr error
	IntakeErr error

	// Call recording
	InsertCalls []catalog.ProductInput
	IntakeCalls []IntakeCall
}

// IntakeCall records parameters passed to ApplyIntake
type IntakeCall struct {
	ProductID     string
	StockQuantity int
	CostPrice     *float64
	SellingPrice  *float64
}

func NewMockCatalogStore() *MockCatalogStore {
	return &MockCatalogStore{products: make(map[string]catalog.Product)}
}

// Seed adds a product without recording calls.
func (m *MockCatalogStore) Seed(p catalog.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// Product returns the stored product by id.
func (m *MockCatalogStore) Product(id string) (catalog.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	return p, ok
}

func (m *MockCatalogStore) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, p := range m.products {
		if strings.EqualFold(p.Name, name) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockCatalogStore) ListAll(ctx context.Context) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]catalog.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (m *MockCatalogStore) Insert(ctx context.Context, input catalog.ProductInput) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	p := catalog.Product{
		ID:            uuid.New().String(),
		Name:          input.Name,
		StockQuantity: input.StockQuantity,
		CostPrice:     input.CostPrice,
		SellingPrice:  input.SellingPrice,
		CreatedAt:     time.Now(),
	}
	m.products[p.ID] = p
	m.InsertCalls = append(m.InsertCalls, input)
	return &p, nil
}

func (m *MockCatalogStore) ApplyIntake(ctx context.Context, productID string, stockQuantity int, costPrice, sellingPrice *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IntakeErr != nil {
		return m.IntakeErr
	}
	p, ok := m.products[productID]
	if !ok {
		return catalog.ErrProductNotFound
	}
	p.StockQuantity = stockQuantity
	if costPrice != nil {
		p.CostPrice = *costPrice
	}
	if sellingPrice != nil {
		p.SellingPrice = *sellingPrice
	}
	m.products[productID] = p
	m.IntakeCalls = append(m.IntakeCalls, IntakeCall{
		ProductID:     productID,
		StockQuantity: stockQuantity,
		CostPrice:     costPrice,
		SellingPrice:  sellingPrice,
	})
	return nil
}
