package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
)

// SerialAllocatorSvc hands out bill numbers.
type SerialAllocatorSvc interface {
	// NextSerial reserves the next serial for variant. Concurrent callers never receive the same value.
	NextSerial(ctx context.Context, variant domain.Variant) (int64, error)
}

// TransactionReaderSvc defines read operations for bills
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, variant domain.Variant, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc creates, edits and removes bills together with their stock effects.
type TransactionWriterSvc interface {
	// CreateTransaction prices the bill, consumes stock, allocates a serial and persists it in one unit of work.
	// A non-empty idempotencyKey makes retries with the same key return the first result.
	CreateTransaction(ctx context.Context, variant domain.Variant, req dto.CreateTransactionRequest, idempotencyKey string) (*domain.TransactionResult, error)

	// UpdateTransaction applies a partial edit, keeps the serial and moves only the stock difference.
	UpdateTransaction(ctx context.Context, variant domain.Variant, transactionID int64, req dto.UpdateTransactionRequest) (*domain.TransactionResult, error)

	// DeleteTransaction returns the stock the bill consumed and removes it.
	DeleteTransaction(ctx context.Context, variant domain.Variant, transactionID int64) ([]domain.StockWarning, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
