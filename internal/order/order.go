package order

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Status is the lifecycle state of an order. The three states are the ones
// staff see on the board; any state can be set directly, there is no
// forward-only restriction.
type Status string

const (
	StatusEnCours Status = "en cours"
	StatusPret    Status = "prêt"
	StatusLivre   Status = "livré"
)

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentCarte    PaymentMethod = "carte"
	PaymentEspeces  PaymentMethod = "espèces"
	PaymentCheque   PaymentMethod = "chèque"
	PaymentVirement PaymentMethod = "virement"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order must have at least one item")
)

type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"order_number"`
	Status        Status        `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalAmount   float64       `json:"total_amount"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Item is a line within an order. UnitPrice is captured at order time and is
// never updated when the catalog price changes afterwards.
type Item struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`

	// Display snapshot of the referenced product, filled on reads only.
	ProductName  string `json:"product_name,omitempty"`
	ProductStock int    `json:"product_stock,omitempty"`
}

// Update is a partial order-level update. Nil fields are left untouched.
// Totals are never recomputed here; that is the coordinator's job.
type Update struct {
	OrderNumber   *string        `json:"order_number,omitempty"`
	Status        *Status        `json:"status,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	TotalAmount   *float64       `json:"total_amount,omitempty"`
}

// ValidStatus reports whether s is one of the three known states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusEnCours, StatusPret, StatusLivre:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCarte, PaymentEspeces, PaymentCheque, PaymentVirement:
		return true
	}
	return false
}

// Normalize coerces rows coming back from storage into displayable shape:
// unknown or missing status defaults to "en cours", a missing total to 0.
func Normalize(o Order) Order {
	if !ValidStatus(o.Status) {
		o.Status = StatusEnCours
	}
	if o.TotalAmount < 0 {
		o.TotalAmount = 0
	}
	return o
}

// Total sums quantity*unit_price over items. The stored total_amount must
// always equal this for the order's current item set.
func Total(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// GenerateNumber builds a human-readable order number from the current date
// plus a zero-padded random 3-digit suffix, e.g. CMD-240101-007. Collisions
// are possible and not detected here.
func GenerateNumber(now time.Time) string {
	return fmt.Sprintf("CMD-%s-%03d", now.Format("060102"), rand.Intn(1000))
}
