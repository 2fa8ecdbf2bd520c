package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresMarginStore implements margin.Store. The aggregation sums each
// item's (unit_price - cost_price) * quantity, with unit_price being the
// price captured at order time.
type PostgresMarginStore struct {
	db *sql.DB
}

func NewPostgresMarginStore(db *sql.DB) *PostgresMarginStore {
	return &PostgresMarginStore{db: db}
}

func (s *PostgresMarginStore) OrderMargin(ctx context.Context, orderID string) (float64, error) {
	var margin float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM((oi.unit_price - p.cost_price) * oi.quantity), 0)
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`, orderID).Scan(&margin)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("%w: order %s: %v", ErrMarginQuery, orderID, err)
	}
	return margin, nil
}
