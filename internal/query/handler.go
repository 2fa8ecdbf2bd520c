package query

import (
	"context"
	"errors"
	"log"

	"github.com/example/resto-backoffice/internal/catalog"
	"github.com/example/resto-backoffice/internal/infrastructure/store"
	"github.com/example/resto-backoffice/internal/margin"
	"github.com/example/resto-backoffice/internal/order"
)

// ProductView is a product row plus its derived per-unit margin, the shape
// the inventory table renders.
type ProductView struct {
	catalog.Product
	Margin margin.ProductMargin `json:"margin"`
}

// Handler serves the dashboard's read paths. Failures degrade to empty
// results with a log line; the render path never sees an error.
type Handler struct {
	orders     store.OrderStore
	catalogSvc *catalog.Service
	margins    *margin.Calculator
}

func NewHandler(orders store.OrderStore, catalogSvc *catalog.Service, margins *margin.Calculator) *Handler {
	return &Handler{orders: orders, catalogSvc: catalogSvc, margins: margins}
}

// ListOrders returns all orders, newest first, normalized for display.
func (h *Handler) ListOrders(ctx context.Context) []order.Order {
	orders, err := h.orders.List(ctx)
	if err != nil {
		log.Printf("[Query] Error listing orders: %v", err)
		return nil
	}
	return orders
}

// GetOrder returns one order by id.
func (h *Handler) GetOrder(ctx context.Context, orderID string) (*order.Order, bool) {
	o, err := h.orders.Get(ctx, orderID)
	if err != nil {
		if !errors.Is(err, order.ErrOrderNotFound) {
			log.Printf("[Query] Error getting order %s: %v", orderID, err)
		}
		return nil, false
	}
	return o, true
}

// GetOrderItems returns an order's items with their product display snapshot.
func (h *Handler) GetOrderItems(ctx context.Context, orderID string) []order.Item {
	items, err := h.orders.GetItems(ctx, orderID)
	if err != nil {
		log.Printf("[Query] Error listing items for order %s: %v", orderID, err)
		return nil
	}
	return items
}

// ListProducts returns the catalog ordered by name, each product with its
// margin attached.
func (h *Handler) ListProducts(ctx context.Context) []ProductView {
	products, err := h.catalogSvc.ListAll(ctx)
	if err != nil {
		log.Printf("[Query] Error listing products: %v", err)
		return nil
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{Product: p, Margin: margin.ForProduct(p)})
	}
	return views
}

// OrderMargin returns the memoized profit margin for an order; 0 when the
// aggregation is unavailable.
func (h *Handler) OrderMargin(ctx context.Context, orderID string) float64 {
	return h.margins.ForOrder(ctx, orderID)
}
