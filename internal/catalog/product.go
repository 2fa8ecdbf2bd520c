package catalog

import (
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidName     = errors.New("product name is required")
	ErrInvalidStock    = errors.New("stock quantity must not be negative")
	ErrInvalidPrice    = errors.New("prices must not be negative")
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StockQuantity int       `json:"stock_quantity"`
	CostPrice     float64   `json:"cost_price"`
	SellingPrice  float64   `json:"selling_price"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProductInput is what the inventory intake form submits. StockQuantity is a
// delta to add when the product already exists, an initial quantity otherwise.
type ProductInput struct {
	Name          string  `json:"name"`
	StockQuantity int     `json:"stock_quantity"`
	CostPrice     float64 `json:"cost_price"`
	SellingPrice  float64 `json:"selling_price"`
}

// UpsertResult reports whether the intake created a new product or topped up
// an existing one.
type UpsertResult struct {
	IsNew   bool    `json:"is_new"`
	Product Product `json:"product"`
}
