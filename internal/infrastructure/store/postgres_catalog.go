package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/resto-backoffice/internal/catalog"
	"github.com/google/uuid"
)

// PostgresCatalogStore implements catalog.Store against the products table.
type PostgresCatalogStore struct {
	db *sql.DB
}

func NewPostgresCatalogStore(db *sql.DB) *PostgresCatalogStore {
	return &PostgresCatalogStore{db: db}
}

// FindByName matches product names case-insensitively. ILIKE without
// wildcards is an exact match modulo case, so at most one row comes back.
func (s *PostgresCatalogStore) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	var p catalog.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, stock_quantity, cost_price, selling_price, created_at
		FROM products WHERE name ILIKE $1
	`, name).Scan(&p.ID, &p.Name, &p.StockQuantity, &p.CostPrice, &p.SellingPrice, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding product by name: %w", err)
	}
	return &p, nil
}

func (s *PostgresCatalogStore) ListAll(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, stock_quantity, cost_price, selling_price, created_at
		FROM products ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.StockQuantity, &p.CostPrice, &p.SellingPrice, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresCatalogStore) Insert(ctx context.Context, input catalog.ProductInput) (*catalog.Product, error) {
	p := catalog.Product{
		ID:            uuid.New().String(),
		Name:          input.Name,
		StockQuantity: input.StockQuantity,
		CostPrice:     input.CostPrice,
		SellingPrice:  input.SellingPrice,
		CreatedAt:     time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, stock_quantity, cost_price, selling_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.StockQuantity, p.CostPrice, p.SellingPrice, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting product %q: %v", ErrCatalogWrite, input.Name, err)
	}
	return &p, nil
}

// ApplyIntake writes the new stock quantity and any changed prices in one
// statement, so the row is updated entirely or not at all.
func (s *PostgresCatalogStore) ApplyIntake(ctx context.Context, productID string, stockQuantity int, costPrice, sellingPrice *float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = $2,
		    cost_price = COALESCE($3, cost_price),
		    selling_price = COALESCE($4, selling_price)
		WHERE id = $1
	`, productID, stockQuantity, nullFloat(costPrice), nullFloat(sellingPrice))
	if err != nil {
		return fmt.Errorf("%w: updating product %s: %v", ErrCatalogWrite, productID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating product %s: %v", ErrCatalogWrite, productID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s: %v", ErrCatalogWrite, productID, catalog.ErrProductNotFound)
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
