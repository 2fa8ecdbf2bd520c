package command

import (
	"github.com/example/resto-backoffice/internal/order"
)

// OrderItemInput is one line of a submitted order. UnitPrice is the price the
// staff member saw when building the order; it becomes the item's permanent
// snapshot price.
type OrderItemInput struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order Commands
type CreateOrder struct {
	OrderNumber   string              `json:"order_number"`
	Status        order.Status        `json:"status"`
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	Items         []OrderItemInput    `json:"items"`
}

// UpdateOrder carries a partial order-level edit. When Items is non-nil the
// total is recomputed from it before persisting; the items themselves are not
// rewritten and no stock deltas are applied on this path.
type UpdateOrder struct {
	OrderID       string               `json:"order_id"`
	OrderNumber   *string              `json:"order_number,omitempty"`
	Status        *order.Status        `json:"status,omitempty"`
	PaymentMethod *order.PaymentMethod `json:"payment_method,omitempty"`
	Items         []OrderItemInput     `json:"items,omitempty"`
}

type DeleteOrder struct {
	OrderID string `json:"order_id"`
}

type ChangeOrderStatus struct {
	OrderID string       `json:"order_id"`
	Status  order.Status `json:"status"`
}
