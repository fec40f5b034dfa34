package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
)

// ListStockHistory retrieves a product's ledger newest first, continuing after the cursor when given.
func (r *PgxLedgerStore) ListStockHistory(ctx context.Context, productID int64, limit int, after *portsrepo.HistoryCursor) ([]domain.StockHistoryEntry, error) {
	query := `
		SELECT entry_id, product_id, product_name, change_type, quantity_change, previous_quantity, new_quantity, notes, created_at
		FROM stock_history
		WHERE product_id = $1
	`
	args := []any{productID}
	if after != nil {
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, after.CreatedAt, after.EntryID)
	}
	query += ` ORDER BY created_at DESC, entry_id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query stock history", err)
	}
	defer rows.Close()

	entries := []domain.StockHistoryEntry{}
	for rows.Next() {
		var e domain.StockHistoryEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.ProductID,
			&e.ProductName,
			&e.ChangeType,
			&e.QuantityChange,
			&e.PreviousQuantity,
			&e.NewQuantity,
			&e.Notes,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan stock history row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating stock history rows", err)
	}
	return entries, nil
}

// SumStockChanges totals quantity_change per product.
func (r *PgxLedgerStore) SumStockChanges(ctx context.Context) (map[int64]int, error) {
	rows, err := r.Pool.Query(ctx, `SELECT product_id, SUM(quantity_change) FROM stock_history GROUP BY product_id;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum stock history", err)
	}
	defer rows.Close()

	sums := make(map[int64]int)
	for rows.Next() {
		var (
			productID int64
			total     int64
		)
		if err := rows.Scan(&productID, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan stock history sum", err)
		}
		sums[productID] = int(total)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating stock history sums", err)
	}
	return sums, nil
}

func (t *pgxLedgerTx) AppendStockHistory(ctx context.Context, entry *domain.StockHistoryEntry) error {
	query := `
		INSERT INTO stock_history (product_id, product_name, change_type, quantity_change, previous_quantity, new_quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING entry_id, created_at;
	`
	err := t.tx.QueryRow(ctx, query,
		entry.ProductID,
		entry.ProductName,
		entry.ChangeType,
		entry.QuantityChange,
		entry.PreviousQuantity,
		entry.NewQuantity,
		entry.Notes,
	).Scan(&entry.EntryID, &entry.CreatedAt)
	if err != nil {
		return mapPgError(err, "append stock history")
	}
	return nil
}
