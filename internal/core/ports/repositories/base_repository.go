package repositories

import (
	"context"
)

// TxFunc is the body of a unit of work. Returning an error rolls every write in it back.
type TxFunc func(ctx context.Context, tx LedgerTx) error

// UnitOfWork runs a function inside one store transaction.
// Implementations commit when fn returns nil and roll back otherwise.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn TxFunc) error
}
