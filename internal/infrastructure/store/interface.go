package store

import (
	"context"
	"errors"

	"github.com/example/resto-backoffice/internal/auth"
	"github.com/example/resto-backoffice/internal/order"
)

var (
	// ErrCatalogWrite wraps a failed catalog mutation.
	ErrCatalogWrite = errors.New("catalog write failed")
	// ErrStockAdjustment wraps a failed stock increment/decrement, including
	// adjustments against an unknown product id.
	ErrStockAdjustment = errors.New("stock adjustment failed")
	// ErrInsufficientStock is returned by Decrement when the guard on the
	// atomic update would drive the stock negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderWrite wraps a failed order insert/update/delete.
	ErrOrderWrite = errors.New("order write failed")
	// ErrMarginQuery wraps a failed margin aggregation query.
	ErrMarginQuery = errors.New("margin query failed")
)

// OrderStore is the order repository. It performs single-row operations only;
// sequencing order writes against stock adjustments is the coordinator's job.
type OrderStore interface {
	// List returns all orders, newest first, normalized for display.
	List(ctx context.Context) ([]order.Order, error)
	// Get returns one order by id, or order.ErrOrderNotFound.
	Get(ctx context.Context, orderID string) (*order.Order, error)
	// GetItems returns the items of an order joined with the referenced
	// product's name and current stock (display snapshot only).
	GetItems(ctx context.Context, orderID string) ([]order.Item, error)
	// Insert writes the order row. No stock side effects.
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	// InsertItem writes a single item row.
	InsertItem(ctx context.Context, item order.Item) error
	// Update applies a partial order-level update and returns the updated
	// row. It never recomputes totals from items.
	Update(ctx context.Context, orderID string, update order.Update) (*order.Order, error)
	// Delete removes the order row; the schema cascades to its items.
	// Deleting an unknown id returns order.ErrOrderNotFound.
	Delete(ctx context.Context, orderID string) error
}

// StockAdjuster mutates product stock through atomic relative updates so that
// concurrent adjustments never lose writes, even when the validation that
// preceded the call read a stale snapshot.
type StockAdjuster interface {
	// Decrement deducts quantity from the product's stock. Fails with
	// ErrInsufficientStock when the resulting quantity would be negative.
	Decrement(ctx context.Context, productID string, quantity int) error
	// Increment restores quantity to the product's stock.
	Increment(ctx context.Context, productID string, quantity int) error
}

// StaffStore looks up back-office accounts for login.
type StaffStore interface {
	// FindByEmail returns the staff row for an email (case-insensitive), or
	// auth.ErrStaffNotFound.
	FindByEmail(ctx context.Context, email string) (*auth.Staff, error)
}
