package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
)

const transactionColumns = `transaction_id, serial_no, customer_name, customer_phone, customer_address, items,
	subtotal, tax_mode, tax_percentage, tax_amount, tax_type, advance_amount, transport_fees, total_amount,
	is_paid, customer_feedback, from_date, to_date, rental_days, created_at, last_updated_at`

func scanTransaction(row interface{ Scan(dest ...any) error }, variant domain.Variant) (domain.Transaction, error) {
	var (
		t        domain.Transaction
		items    []byte
		feedback *string
	)
	err := row.Scan(
		&t.TransactionID,
		&t.SerialNo,
		&t.CustomerName,
		&t.CustomerPhone,
		&t.CustomerAddress,
		&items,
		&t.Subtotal,
		&t.TaxMode,
		&t.TaxPercentage,
		&t.TaxAmount,
		&t.TaxType,
		&t.AdvanceAmount,
		&t.TransportFees,
		&t.TotalAmount,
		&t.IsPaid,
		&feedback,
		&t.FromDate,
		&t.ToDate,
		&t.RentalDays,
		&t.CreatedAt,
		&t.LastUpdatedAt,
	)
	if err != nil {
		return t, err
	}
	t.Variant = variant
	if feedback != nil {
		f := domain.Feedback(*feedback)
		t.CustomerFeedback = &f
	}
	if err := json.Unmarshal(items, &t.Items); err != nil {
		return t, fmt.Errorf("failed to decode items of %s transaction %d: %w", variant, t.TransactionID, err)
	}
	return t, nil
}

func feedbackArg(f *domain.Feedback) *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

// FindTransactionByID retrieves a bill by its ID.
func (r *PgxLedgerStore) FindTransactionByID(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error) {
	table, err := tableFor(variant)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE transaction_id = $1;`, transactionColumns, table)
	t, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID), variant)
	if err != nil {
		return nil, notFoundOr(mapPgError(err, "find transaction"), "%s transaction %d not found", variant, transactionID)
	}
	return &t, nil
}

// ListTransactions retrieves bills newest serial first.
func (r *PgxLedgerStore) ListTransactions(ctx context.Context, variant domain.Variant, limit int, beforeSerial *int64) ([]domain.Transaction, error) {
	table, err := tableFor(variant)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE ($1::BIGINT IS NULL OR serial_no < $1)
		ORDER BY serial_no DESC
		LIMIT $2;`, transactionColumns, table)

	rows, err := r.Pool.Query(ctx, query, beforeSerial, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows, variant)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return txns, nil
}

func (t *pgxLedgerTx) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	table, err := tableFor(txn.Variant)
	if err != nil {
		return err
	}
	items, err := json.Marshal(txn.Items)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode transaction items", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (serial_no, customer_name, customer_phone, customer_address, items,
			subtotal, tax_mode, tax_percentage, tax_amount, tax_type, advance_amount, transport_fees, total_amount,
			is_paid, customer_feedback, from_date, to_date, rental_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING transaction_id, created_at, last_updated_at;`, table)
	err = t.tx.QueryRow(ctx, query,
		txn.SerialNo,
		txn.CustomerName,
		txn.CustomerPhone,
		txn.CustomerAddress,
		items,
		txn.Subtotal,
		txn.TaxMode,
		txn.TaxPercentage,
		txn.TaxAmount,
		txn.TaxType,
		txn.AdvanceAmount,
		txn.TransportFees,
		txn.TotalAmount,
		txn.IsPaid,
		feedbackArg(txn.CustomerFeedback),
		txn.FromDate,
		txn.ToDate,
		txn.RentalDays,
	).Scan(&txn.TransactionID, &txn.CreatedAt, &txn.LastUpdatedAt)
	if err != nil {
		return mapPgError(err, "insert transaction")
	}
	return nil
}

func (t *pgxLedgerTx) LockTransaction(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error) {
	table, err := tableFor(variant)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE transaction_id = $1 FOR UPDATE;`, transactionColumns, table)
	txn, err := scanTransaction(t.tx.QueryRow(ctx, query, transactionID), variant)
	if err != nil {
		return nil, notFoundOr(mapPgError(err, "lock transaction"), "%s transaction %d not found", variant, transactionID)
	}
	return &txn, nil
}

// UpdateTransaction rewrites every mutable column. serial_no and created_at are never touched.
func (t *pgxLedgerTx) UpdateTransaction(ctx context.Context, txn *domain.Transaction) error {
	table, err := tableFor(txn.Variant)
	if err != nil {
		return err
	}
	items, err := json.Marshal(txn.Items)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode transaction items", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET customer_name = $2, customer_phone = $3, customer_address = $4, items = $5,
			subtotal = $6, tax_mode = $7, tax_percentage = $8, tax_amount = $9, tax_type = $10,
			advance_amount = $11, transport_fees = $12, total_amount = $13, is_paid = $14,
			customer_feedback = $15, from_date = $16, to_date = $17, rental_days = $18, last_updated_at = now()
		WHERE transaction_id = $1
		RETURNING serial_no, created_at, last_updated_at;`, table)
	err = t.tx.QueryRow(ctx, query,
		txn.TransactionID,
		txn.CustomerName,
		txn.CustomerPhone,
		txn.CustomerAddress,
		items,
		txn.Subtotal,
		txn.TaxMode,
		txn.TaxPercentage,
		txn.TaxAmount,
		txn.TaxType,
		txn.AdvanceAmount,
		txn.TransportFees,
		txn.TotalAmount,
		txn.IsPaid,
		feedbackArg(txn.CustomerFeedback),
		txn.FromDate,
		txn.ToDate,
		txn.RentalDays,
	).Scan(&txn.SerialNo, &txn.CreatedAt, &txn.LastUpdatedAt)
	if err != nil {
		return notFoundOr(mapPgError(err, "update transaction"), "%s transaction %d not found", txn.Variant, txn.TransactionID)
	}
	return nil
}

func (t *pgxLedgerTx) DeleteTransaction(ctx context.Context, variant domain.Variant, transactionID int64) error {
	table, err := tableFor(variant)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE transaction_id = $1;`, table), transactionID)
	if err != nil {
		return mapPgError(err, "delete transaction")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("%s transaction %d not found", variant, transactionID)
	}
	return nil
}
