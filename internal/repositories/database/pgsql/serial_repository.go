package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
)

// NextSerial bumps the per-variant counter row and returns the new value. The counter row stays
// locked until the surrounding transaction ends, so concurrent creators queue behind each other,
// and seeding from MAX(serial_no) keeps it ahead of rows inserted by older code paths.
// The UNIQUE constraint on serial_no remains the final guard.
func (t *pgxLedgerTx) NextSerial(ctx context.Context, variant domain.Variant) (int64, error) {
	table, err := tableFor(variant)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`
		INSERT INTO serial_counters (variant, last_serial)
		VALUES ($1, (SELECT COALESCE(MAX(serial_no), 0) FROM %[1]s) + 1)
		ON CONFLICT (variant) DO UPDATE
		SET last_serial = GREATEST(serial_counters.last_serial, (SELECT COALESCE(MAX(serial_no), 0) FROM %[1]s)) + 1
		RETURNING last_serial;`, table)

	var serial int64
	if err := t.tx.QueryRow(ctx, query, string(variant)).Scan(&serial); err != nil {
		return 0, mapPgError(err, "allocate serial")
	}
	return serial, nil
}
