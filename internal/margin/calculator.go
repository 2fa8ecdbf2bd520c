package margin

import (
	"context"
	"log"
	"sync"

	"github.com/example/resto-backoffice/internal/catalog"
)

// ProductMargin is the per-unit margin of a product.
type ProductMargin struct {
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// ForProduct derives the margin from the catalog prices. Percent is relative
// to the cost price and guarded against division by zero.
func ForProduct(p catalog.Product) ProductMargin {
	amount := p.SellingPrice - p.CostPrice
	percent := 0.0
	if p.CostPrice > 0 {
		percent = amount / p.CostPrice * 100
	}
	return ProductMargin{Amount: amount, Percent: percent}
}

// Store is the remote aggregation capability: given an order id it returns
// the summed per-item margin contributions.
type Store interface {
	OrderMargin(ctx context.Context, orderID string) (float64, error)
}

// Calculator answers order-margin queries through a memoizing cache keyed by
// order id. Entries are populated lazily and invalidated when the order is
// updated or deleted.
type Calculator struct {
	store Store

	mu    sync.RWMutex
	cache map[string]float64
}

func NewCalculator(store Store) *Calculator {
	return &Calculator{
		store: store,
		cache: make(map[string]float64),
	}
}

// ForOrder returns the profit margin for an order. On a failed remote query
// it logs the error and returns 0 rather than failing the read path.
func (c *Calculator) ForOrder(ctx context.Context, orderID string) float64 {
	c.mu.RLock()
	cached, ok := c.cache[orderID]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	value, err := c.store.OrderMargin(ctx, orderID)
	if err != nil {
		log.Printf("[Margin] Failed to compute margin for order %s: %v", orderID, err)
		return 0
	}

	c.mu.Lock()
	c.cache[orderID] = value
	c.mu.Unlock()
	return value
}

// Invalidate drops the cached margin for an order. Called by the coordinator
// after every order update or delete.
func (c *Calculator) Invalidate(orderID string) {
	c.mu.Lock()
	delete(c.cache, orderID)
	c.mu.Unlock()
}
