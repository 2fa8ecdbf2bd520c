package command

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/resto-backoffice/internal/catalog"
	"github.com/example/resto-backoffice/internal/events"
	"github.com/example/resto-backoffice/internal/infrastructure/store"
	"github.com/example/resto-backoffice/internal/margin"
	"github.com/example/resto-backoffice/internal/order"
)

// ErrPartialRestore reports a deleted order whose stock restoration stopped
// partway. The order row is gone; the message names the products whose stock
// was not restored.
var ErrPartialRestore = errors.New("order deleted but stock only partially restored")

// Publisher emits lifecycle events after successful mutations. Publish
// failures are logged, never surfaced: notifications are best effort.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, data any) error
}

// Handler is the order lifecycle coordinator. It sequences order writes
// against stock adjustments: order row before items, each item before its
// decrement, and compensates a partially-applied create by reversing the
// decrements and removing the order row.
type Handler struct {
	orders     store.OrderStore
	stock      store.StockAdjuster
	catalogSvc *catalog.Service
	margins    *margin.Calculator
	producer   Publisher
}

func NewHandler(
	orders store.OrderStore,
	stock store.StockAdjuster,
	catalogSvc *catalog.Service,
	margins *margin.Calculator,
	producer Publisher,
) *Handler {
	return &Handler{
		orders:     orders,
		stock:      stock,
		catalogSvc: catalogSvc,
		margins:    margins,
		producer:   producer,
	}
}

// CreateOrder validates against a catalog snapshot, inserts the order row,
// then per item inserts the row and decrements stock. A failure after the
// order insert triggers compensation: already-applied decrements are
// reversed and the order row is deleted before the error is surfaced.
func (h *Handler) CreateOrder(ctx context.Context, cmd CreateOrder) (*order.Order, error) {
	products, err := h.catalogSvc.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog snapshot: %w", err)
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	if errs := validateCreateOrder(cmd, byID); errs != nil {
		return nil, errs
	}

	items := make([]order.Item, len(cmd.Items))
	for i, in := range cmd.Items {
		items[i] = order.Item{
			ProductID:   in.ProductID,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			ProductName: byID[in.ProductID].Name,
		}
	}

	created, err := h.orders.Insert(ctx, order.Order{
		OrderNumber:   cmd.OrderNumber,
		Status:        cmd.Status,
		PaymentMethod: cmd.PaymentMethod,
		TotalAmount:   order.Total(items),
	})
	if err != nil {
		return nil, err
	}

	// applied tracks the decrements to reverse if a later step fails.
	var applied []order.Item
	for _, item := range items {
		item.OrderID = created.ID

		if err := h.orders.InsertItem(ctx, item); err != nil {
			h.compensateCreate(ctx, created.ID, applied)
			return nil, err
		}
		if err := h.stock.Decrement(ctx, item.ProductID, item.Quantity); err != nil {
			h.compensateCreate(ctx, created.ID, applied)
			return nil, err
		}
		applied = append(applied, item)
	}

	h.publish(ctx, created.ID, events.TypeOrderCreated, events.OrderCreated{
		OrderID:     created.ID,
		OrderNumber: created.OrderNumber,
		TotalAmount: created.TotalAmount,
		Items:       toEventItems(items),
		CreatedAt:   created.CreatedAt,
	})

	log.Printf("[Command] Created order %s (%s) with %d items", created.OrderNumber, created.ID, len(items))
	return created, nil
}

// compensateCreate reverses the stock decrements already applied for a
// half-created order and removes its row (the cascade removes inserted
// items). Reversal failures are logged and skipped: compensation is best
// effort, the original error is what the caller sees.
func (h *Handler) compensateCreate(ctx context.Context, orderID string, applied []order.Item) {
	for _, item := range applied {
		if err := h.stock.Increment(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("[Command] Compensation failed to restore %d units of product %s: %v",
				item.Quantity, item.ProductID, err)
		}
	}
	if err := h.orders.Delete(ctx, orderID); err != nil {
		log.Printf("[Command] Compensation failed to remove order %s: %v", orderID, err)
	}
}

// UpdateOrder persists order-level fields only. The total is recomputed from
// the submitted item set before the write; item composition changes do not
// adjust stock on this path.
func (h *Handler) UpdateOrder(ctx context.Context, cmd UpdateOrder) (*order.Order, error) {
	update := order.Update{
		OrderNumber:   cmd.OrderNumber,
		Status:        cmd.Status,
		PaymentMethod: cmd.PaymentMethod,
	}

	if cmd.Items != nil {
		items := make([]order.Item, len(cmd.Items))
		for i, in := range cmd.Items {
			items[i] = order.Item{ProductID: in.ProductID, Quantity: in.Quantity, UnitPrice: in.UnitPrice}
		}
		total := order.Total(items)
		update.TotalAmount = &total
	}

	updated, err := h.orders.Update(ctx, cmd.OrderID, update)
	if err != nil {
		return nil, err
	}

	h.margins.Invalidate(cmd.OrderID)

	h.publish(ctx, updated.ID, events.TypeOrderUpdated, events.OrderUpdated{
		OrderID:     updated.ID,
		OrderNumber: updated.OrderNumber,
		Status:      string(updated.Status),
		TotalAmount: updated.TotalAmount,
	})

	return updated, nil
}

// ChangeStatus is a restricted update that only ever sets the status. All
// three statuses are mutually reachable; there is no forward-only rule.
func (h *Handler) ChangeStatus(ctx context.Context, cmd ChangeOrderStatus) (*order.Order, error) {
	if !order.ValidStatus(cmd.Status) {
		return nil, ValidationErrors{"status": "Statut invalide"}
	}
	return h.UpdateOrder(ctx, UpdateOrder{OrderID: cmd.OrderID, Status: &cmd.Status})
}

// DeleteOrder reads the order's items, deletes the order row (the schema
// cascades to the items), then restores each item's quantity to its product.
// A restore failure stops the loop and is reported as ErrPartialRestore;
// remaining items are not retried.
func (h *Handler) DeleteOrder(ctx context.Context, cmd DeleteOrder) error {
	existing, err := h.orders.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}

	items, err := h.orders.GetItems(ctx, cmd.OrderID)
	if err != nil {
		return fmt.Errorf("reading items of order %s: %w", cmd.OrderID, err)
	}

	if err := h.orders.Delete(ctx, cmd.OrderID); err != nil {
		return err
	}

	var restored []order.Item
	for i, item := range items {
		if err := h.stock.Increment(ctx, item.ProductID, item.Quantity); err != nil {
			remaining := make([]string, 0, len(items)-i)
			for _, rest := range items[i:] {
				remaining = append(remaining, rest.ProductID)
			}
			h.margins.Invalidate(cmd.OrderID)
			return fmt.Errorf("%w: products %v: %v", ErrPartialRestore, remaining, err)
		}
		restored = append(restored, item)
	}

	h.margins.Invalidate(cmd.OrderID)

	h.publish(ctx, cmd.OrderID, events.TypeOrderDeleted, events.OrderDeleted{
		OrderID:       cmd.OrderID,
		OrderNumber:   existing.OrderNumber,
		RestoredItems: toEventItems(restored),
	})

	log.Printf("[Command] Deleted order %s and restored stock for %d items", existing.OrderNumber, len(restored))
	return nil
}

// IntakeProduct runs the inventory intake upsert and announces the result.
func (h *Handler) IntakeProduct(ctx context.Context, input catalog.ProductInput) (*catalog.UpsertResult, error) {
	result, err := h.catalogSvc.UpsertByName(ctx, input)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, result.Product.ID, events.TypeProductUpserted, events.ProductUpserted{
		ProductID:     result.Product.ID,
		Name:          result.Product.Name,
		IsNew:         result.IsNew,
		AddedQuantity: input.StockQuantity,
		StockQuantity: result.Product.StockQuantity,
	})

	return result, nil
}

func (h *Handler) publish(ctx context.Context, key, eventType string, data any) {
	if h.producer == nil {
		return
	}
	if err := h.producer.Publish(ctx, key, eventType, data); err != nil {
		log.Printf("[Command] Failed to publish %s event for %s: %v", eventType, key, err)
	}
}

func toEventItems(items []order.Item) []events.OrderItem {
	out := make([]events.OrderItem, len(items))
	for i, item := range items {
		out[i] = events.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return out
}
