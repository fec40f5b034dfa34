package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
)

type serialAllocator struct {
	BaseService
	store portsrepo.UnitOfWork
}

// NewSerialAllocator creates a new SerialAllocatorSvc.
func NewSerialAllocator(store portsrepo.UnitOfWork) portssvc.SerialAllocatorSvc {
	return &serialAllocator{store: store}
}

var _ portssvc.SerialAllocatorSvc = (*serialAllocator)(nil)

// allocate reserves a serial inside a unit of work owned by the caller.
func (s *serialAllocator) allocate(ctx context.Context, tx portsrepo.LedgerTx, variant domain.Variant) (int64, error) {
	if !variant.Valid() {
		return 0, apperrors.Invalid("unknown transaction variant %q", variant)
	}
	return tx.NextSerial(ctx, variant)
}

func (s *serialAllocator) NextSerial(ctx context.Context, variant domain.Variant) (int64, error) {
	var serial int64
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		serial, err = s.allocate(ctx, tx, variant)
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to allocate serial", slog.String("variant", string(variant)))
		return 0, err
	}
	s.LogDebug(ctx, "Serial allocated", slog.String("variant", string(variant)), slog.Int64("serial_no", serial))
	return serial, nil
}
