package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
)

const productColumns = `product_id, name, rate, category, product_type, stock_quantity, min_stock_level,
	total_sales, total_rentals, last_restocked, created_at, last_updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ProductID,
		&p.Name,
		&p.Rate,
		&p.Category,
		&p.ProductType,
		&p.StockQuantity,
		&p.MinStockLevel,
		&p.TotalSales,
		&p.TotalRentals,
		&p.LastRestocked,
		&p.CreatedAt,
		&p.LastUpdatedAt,
	)
	return p, err
}

// FindProductByID retrieves a product by its ID.
func (r *PgxLedgerStore) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	p, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, notFoundOr(mapPgError(err, "find product"), "product %d not found", productID)
	}
	return &p, nil
}

// ListProducts retrieves products ordered by name.
func (r *PgxLedgerStore) ListProducts(ctx context.Context, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProductType != nil {
		args = append(args, *filter.ProductType)
		where = append(where, fmt.Sprintf("product_type = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, product_id;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}
	return products, nil
}

// UpdateProductDetails updates catalog fields only.
func (r *PgxLedgerStore) UpdateProductDetails(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, rate = $3, category = $4, min_stock_level = $5, last_updated_at = now()
		WHERE product_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, product.ProductID, product.Name, product.Rate, product.Category, product.MinStockLevel)
	if err != nil {
		return mapPgError(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product %d not found", product.ProductID)
	}
	return nil
}

// DeleteProduct removes a product row. stock_history has no foreign key, so its rows survive.
func (r *PgxLedgerStore) DeleteProduct(ctx context.Context, productID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1;`, productID)
	if err != nil {
		return mapPgError(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("product %d not found", productID)
	}
	return nil
}

func (t *pgxLedgerTx) InsertProduct(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, rate, category, product_type, stock_quantity, min_stock_level,
			total_sales, total_rentals, last_restocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING product_id, created_at, last_updated_at;
	`
	err := t.tx.QueryRow(ctx, query,
		product.Name,
		product.Rate,
		product.Category,
		product.ProductType,
		product.StockQuantity,
		product.MinStockLevel,
		product.TotalSales,
		product.TotalRentals,
		product.LastRestocked,
	).Scan(&product.ProductID, &product.CreatedAt, &product.LastUpdatedAt)
	if err != nil {
		return mapPgError(err, "insert product")
	}
	return nil
}

func (t *pgxLedgerTx) FindProductIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `SELECT product_id FROM products WHERE name = $1 ORDER BY product_id LIMIT 1;`, name).Scan(&id)
	if err != nil {
		mapped := mapPgError(err, "find product by name")
		if mapped == apperrors.ErrNotFound {
			return 0, false, nil
		}
		return 0, false, mapped
	}
	return id, true, nil
}

// LockProducts takes row locks in ascending id order so two bills touching the same products cannot deadlock.
func (t *pgxLedgerTx) LockProducts(ctx context.Context, productIDs []int64) (map[int64]*domain.Product, error) {
	locked := make(map[int64]*domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return locked, nil
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE product_id = ANY($1)
		ORDER BY product_id
		FOR UPDATE;`
	rows, err := t.tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, mapPgError(err, "lock products")
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked product row", err)
		}
		locked[p.ProductID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "lock products")
	}
	return locked, nil
}

func (t *pgxLedgerTx) SaveProductStock(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET stock_quantity = $2, total_sales = $3, total_rentals = $4, last_restocked = $5, last_updated_at = now()
		WHERE product_id = $1
		RETURNING last_updated_at;
	`
	err := t.tx.QueryRow(ctx, query,
		product.ProductID,
		product.StockQuantity,
		product.TotalSales,
		product.TotalRentals,
		product.LastRestocked,
	).Scan(&product.LastUpdatedAt)
	if err != nil {
		return notFoundOr(mapPgError(err, "save product stock"), "product %d not found", product.ProductID)
	}
	return nil
}
