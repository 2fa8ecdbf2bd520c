package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStockAdjuster implements StockAdjuster with single-statement
// relative updates. The adjustment is expressed against the stored quantity,
// not a client-held value, so concurrent adjustments to the same product
// never lose writes.
type PostgresStockAdjuster struct {
	db *sql.DB
}

func NewPostgresStockAdjuster(db *sql.DB) *PostgresStockAdjuster {
	return &PostgresStockAdjuster{db: db}
}

// Decrement deducts quantity atomically. The stock_quantity >= $2 guard makes
// the sufficiency check part of the same statement as the deduction, so a
// stale validation read can no longer drive stock negative; the guard failing
// surfaces as ErrInsufficientStock.
func (s *PostgresStockAdjuster) Decrement(ctx context.Context, productID string, quantity int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity >= $2
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("%w: decrementing product %s by %d: %v", ErrStockAdjustment, productID, quantity, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: decrementing product %s: %v", ErrStockAdjustment, productID, err)
	}
	if affected == 0 {
		// Either the product is unknown or the guard rejected the deduction.
		exists, err := s.productExists(ctx, productID)
		if err != nil {
			return fmt.Errorf("%w: decrementing product %s: %v", ErrStockAdjustment, productID, err)
		}
		if !exists {
			return fmt.Errorf("%w: unknown product %s", ErrStockAdjustment, productID)
		}
		return fmt.Errorf("%w: product %s, requested %d", ErrInsufficientStock, productID, quantity)
	}
	return nil
}

// Increment restores quantity atomically. Used on order deletion and to
// compensate a failed order creation.
func (s *PostgresStockAdjuster) Increment(ctx context.Context, productID string, quantity int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2
		WHERE id = $1
	`, productID, quantity)
	if err != nil {
		return fmt.Errorf("%w: incrementing product %s by %d: %v", ErrStockAdjustment, productID, quantity, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: incrementing product %s: %v", ErrStockAdjustment, productID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: unknown product %s", ErrStockAdjustment, productID)
	}
	return nil
}

func (s *PostgresStockAdjuster) productExists(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	return exists, err
}
