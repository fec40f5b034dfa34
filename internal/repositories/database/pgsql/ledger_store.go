package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerStore is the Postgres LedgerStore. Reads go straight to the pool;
// writes run through RunInTx so stock, history, serial and bill rows commit together.
type PgxLedgerStore struct {
	BaseRepository
}

// NewLedgerStore creates a Postgres-backed ledger.
func NewLedgerStore(pool *pgxpool.Pool) *PgxLedgerStore {
	return &PgxLedgerStore{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

// RunInTx runs fn inside a read-committed transaction. Row locks taken through the LedgerTx
// are held until commit or rollback.
func (r *PgxLedgerStore) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored once committed
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// pgxLedgerTx implements LedgerTx on top of one pgx.Tx.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

var transactionTables = map[domain.Variant]string{
	domain.VariantSales:  "sales_transactions",
	domain.VariantRental: "rental_transactions",
}

func tableFor(variant domain.Variant) (string, error) {
	table, ok := transactionTables[variant]
	if !ok {
		return "", apperrors.Invalid("unknown transaction variant %q", variant)
	}
	return table, nil
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound(format, args...)
	}
	return err
}
