package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
)

// StockMutatorSvc applies stock changes and records them in the ledger.
type StockMutatorSvc interface {
	// ApplyDelta moves a product's stock by delta and appends one history entry.
	// sale/rental decreases clamp at zero; any other decrease below zero fails with INSUFFICIENT_STOCK.
	ApplyDelta(ctx context.Context, productID int64, delta int, changeType domain.ChangeType, notes *string) (*domain.StockMutation, error)

	// SetStockLevel books the difference between a counted quantity and the recorded one as an inventory change.
	SetStockLevel(ctx context.Context, productID int64, countedQuantity int, notes *string) (*domain.StockMutation, error)
}

// StockLedgerReaderSvc defines read operations on the stock ledger.
type StockLedgerReaderSvc interface {
	ListStockHistory(ctx context.Context, productID int64, params dto.ListStockHistoryParams) (*dto.ListStockHistoryResponse, error)

	// Reconcile compares every product's stock with the sum of its ledger entries.
	Reconcile(ctx context.Context) (*domain.ReconciliationReport, error)
}

// StockLedgerSvcFacade combines all stock ledger service interfaces
type StockLedgerSvcFacade interface {
	StockMutatorSvc
	StockLedgerReaderSvc
}
