package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/resto-backoffice/internal/email"
	"github.com/example/resto-backoffice/internal/events"
)

// Sender is the slice of email.Service the notifier uses.
type Sender interface {
	SendOrderCreated(to, orderNumber string, total float64, items []email.OrderItem) error
	SendOrderDeleted(to, orderNumber string, restored []email.OrderItem) error
	SendIntakeNotice(to, productName string, addedQuantity, stockQuantity int, isNew bool) error
}

// Handler turns lifecycle events into staff emails. Order updates are not
// mailed; only creations, deletions and stock intakes are worth an inbox.
type Handler struct {
	sender    Sender
	recipient string
}

// NewHandler creates a new notification handler. recipient is the shared
// back-office address notifications go to.
func NewHandler(sender Sender, recipient string) *Handler {
	return &Handler{
		sender:    sender,
		recipient: recipient,
	}
}

// HandleEvent processes one event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env struct {
		Type       string          `json:"type"`
		OccurredAt time.Time       `json:"occurred_at"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(value, &env); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch env.Type {
	case events.TypeOrderCreated:
		return h.handleOrderCreated(env.Data)
	case events.TypeOrderDeleted:
		return h.handleOrderDeleted(env.Data)
	case events.TypeProductUpserted:
		return h.handleProductUpserted(env.Data)
	}

	return nil
}

func (h *Handler) handleOrderCreated(data json.RawMessage) error {
	var e events.OrderCreated
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderCreated event: %v", err)
		return err
	}

	if err := h.sender.SendOrderCreated(h.recipient, e.OrderNumber, e.TotalAmount, toEmailItems(e.Items)); err != nil {
		log.Printf("[Notifier] Failed to send order-created email for %s: %v", e.OrderNumber, err)
		return err
	}

	log.Printf("[Notifier] Order-created email sent for %s", e.OrderNumber)
	return nil
}

func (h *Handler) handleOrderDeleted(data json.RawMessage) error {
	var e events.OrderDeleted
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderDeleted event: %v", err)
		return err
	}

	if err := h.sender.SendOrderDeleted(h.recipient, e.OrderNumber, toEmailItems(e.RestoredItems)); err != nil {
		log.Printf("[Notifier] Failed to send order-deleted email for %s: %v", e.OrderNumber, err)
		return err
	}

	log.Printf("[Notifier] Order-deleted email sent for %s", e.OrderNumber)
	return nil
}

func (h *Handler) handleProductUpserted(data json.RawMessage) error {
	var e events.ProductUpserted
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal ProductUpserted event: %v", err)
		return err
	}

	if err := h.sender.SendIntakeNotice(h.recipient, e.Name, e.AddedQuantity, e.StockQuantity, e.IsNew); err != nil {
		log.Printf("[Notifier] Failed to send intake email for %s: %v", e.Name, err)
		return err
	}

	log.Printf("[Notifier] Intake email sent for %s", e.Name)
	return nil
}

func toEmailItems(items []events.OrderItem) []email.OrderItem {
	out := make([]email.OrderItem, len(items))
	for i, item := range items {
		out[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return out
}
