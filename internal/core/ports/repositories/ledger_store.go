package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
)

// ProductFilter narrows a product listing. Zero values match everything.
type ProductFilter struct {
	ProductType *domain.ProductType
	Category    *string
}

// HistoryCursor positions a newest-first stock history listing.
type HistoryCursor struct {
	CreatedAt time.Time
	EntryID   int64
}

// ProductReader defines read operations for catalog data
type ProductReader interface {
	FindProductByID(ctx context.Context, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

// ProductWriter defines catalog edits that never touch stock.
type ProductWriter interface {
	UpdateProductDetails(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, productID int64) error
}

// TransactionReader defines read operations for sales and rental bills.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error)
	// ListTransactions returns bills newest serial first, starting below beforeSerial when it is set.
	ListTransactions(ctx context.Context, variant domain.Variant, limit int, beforeSerial *int64) ([]domain.Transaction, error)
}

// StockHistoryReader defines read operations on the stock ledger.
type StockHistoryReader interface {
	ListStockHistory(ctx context.Context, productID int64, limit int, after *HistoryCursor) ([]domain.StockHistoryEntry, error)
	// SumStockChanges returns the sum of quantity_change per product id.
	SumStockChanges(ctx context.Context) (map[int64]int, error)
}

// LedgerTx is the set of writes that must run inside a unit of work.
// LockProducts and LockTransaction hold their rows until the unit of work ends.
type LedgerTx interface {
	InsertProduct(ctx context.Context, product *domain.Product) error
	FindProductIDByName(ctx context.Context, name string) (int64, bool, error)
	// LockProducts locks the rows for ids in ascending id order. Missing ids are absent from the result.
	LockProducts(ctx context.Context, productIDs []int64) (map[int64]*domain.Product, error)
	SaveProductStock(ctx context.Context, product *domain.Product) error
	AppendStockHistory(ctx context.Context, entry *domain.StockHistoryEntry) error

	// NextSerial reserves the next serial for variant. Reserved numbers are never handed out again.
	NextSerial(ctx context.Context, variant domain.Variant) (int64, error)
	InsertTransaction(ctx context.Context, txn *domain.Transaction) error
	LockTransaction(ctx context.Context, variant domain.Variant, transactionID int64) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *domain.Transaction) error
	DeleteTransaction(ctx context.Context, variant domain.Variant, transactionID int64) error
}

// LedgerStore combines all ledger persistence interfaces.
type LedgerStore interface {
	ProductReader
	ProductWriter
	TransactionReader
	StockHistoryReader
	UnitOfWork
}
