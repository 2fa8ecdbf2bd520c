package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/resto-backoffice/internal/order"
	"github.com/google/uuid"
)

// PostgresOrderStore implements OrderStore against the orders and
// order_items tables. order_items carries ON DELETE CASCADE from orders, so
// Delete never touches items directly.
type PostgresOrderStore struct {
	db *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

func (s *PostgresOrderStore) List(ctx context.Context) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_number, COALESCE(status, ''), COALESCE(payment_method, ''),
		       COALESCE(total_amount, 0), created_at
		FROM orders ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.PaymentMethod, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, order.Normalize(o))
	}
	return orders, rows.Err()
}

func (s *PostgresOrderStore) Get(ctx context.Context, orderID string) (*order.Order, error) {
	var o order.Order
	err := s.db.QueryRowContext(ctx, `
		SELECT id, order_number, COALESCE(status, ''), COALESCE(payment_method, ''),
		       COALESCE(total_amount, 0), created_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&o.ID, &o.OrderNumber, &o.Status, &o.PaymentMethod, &o.TotalAmount, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting order %s: %w", orderID, err)
	}
	normalized := order.Normalize(o)
	return &normalized, nil
}

// GetItems joins each item with the referenced product's current name and
// stock. The join is display-only; unit_price stays the captured snapshot.
func (s *PostgresOrderStore) GetItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price,
		       COALESCE(p.name, ''), COALESCE(p.stock_quantity, 0)
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.ProductName, &item.ProductStock); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresOrderStore) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, status, payment_method, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, o.ID, o.OrderNumber, o.Status, o.PaymentMethod, o.TotalAmount, o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting order %s: %v", ErrOrderWrite, o.OrderNumber, err)
	}
	return &o, nil
}

func (s *PostgresOrderStore) InsertItem(ctx context.Context, item order.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	if err != nil {
		return fmt.Errorf("%w: inserting item for order %s: %v", ErrOrderWrite, item.OrderID, err)
	}
	return nil
}

func (s *PostgresOrderStore) Update(ctx context.Context, orderID string, update order.Update) (*order.Order, error) {
	var o order.Order
	err := s.db.QueryRowContext(ctx, `
		UPDATE orders
		SET order_number   = COALESCE($2, order_number),
		    status         = COALESCE($3, status),
		    payment_method = COALESCE($4, payment_method),
		    total_amount   = COALESCE($5, total_amount)
		WHERE id = $1
		RETURNING id, order_number, status, payment_method, total_amount, created_at
	`, orderID, update.OrderNumber, (*string)(update.Status), (*string)(update.PaymentMethod), update.TotalAmount).
		Scan(&o.ID, &o.OrderNumber, &o.Status, &o.PaymentMethod, &o.TotalAmount, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: updating order %s: %v", ErrOrderWrite, orderID, err)
	}
	normalized := order.Normalize(o)
	return &normalized, nil
}

func (s *PostgresOrderStore) Delete(ctx context.Context, orderID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("%w: deleting order %s: %v", ErrOrderWrite, orderID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting order %s: %v", ErrOrderWrite, orderID, err)
	}
	if affected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}
