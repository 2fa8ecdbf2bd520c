// Package events defines the lifecycle events published to Kafka after each
// successful back-office mutation. The notifier service consumes them to keep
// staff informed; nothing in the write path depends on them being delivered.
package events

import "time"

const (
	TypeOrderCreated    = "OrderCreated"
	TypeOrderUpdated    = "OrderUpdated"
	TypeOrderDeleted    = "OrderDeleted"
	TypeProductUpserted = "ProductUpserted"
)

// Envelope wraps every published event with its type so consumers can
// dispatch without trial-decoding payloads.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderCreated struct {
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	TotalAmount float64     `json:"total_amount"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}

type OrderUpdated struct {
	OrderID     string  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type OrderDeleted struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	// RestoredItems lists the stock restorations that succeeded.
	RestoredItems []OrderItem `json:"restored_items"`
}

type ProductUpserted struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	IsNew         bool   `json:"is_new"`
	AddedQuantity int    `json:"added_quantity"`
	StockQuantity int    `json:"stock_quantity"`
}
