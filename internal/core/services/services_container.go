package services

import (
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/platform/config"
)

// NewServiceContainer wires every service against one repository provider.
// The stock ledger and serial allocator instances are shared so the catalog and
// transaction services mutate stock through the same code path.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	stock := newStockLedgerService(repos.Ledger)
	serials := &serialAllocator{store: repos.Ledger}

	txnOpts := []TransactionServiceOption{
		WithPhoneRegion(cfg.PhoneRegion),
		WithMaxRetries(cfg.SerialMaxRetries),
	}
	if repos.Idempotency != nil {
		txnOpts = append(txnOpts, WithIdempotency(repos.Idempotency, cfg.IdempotencyTTL))
	}

	return &portssvc.ServiceContainer{
		Catalog:      newCatalogService(repos.Ledger, stock, WithDefaultMinStockLevel(cfg.DefaultMinStockLevel)),
		Stock:        stock,
		Serials:      serials,
		Transactions: newTransactionService(repos.Ledger, stock, serials, txnOpts...),
		Analytics:    NewAnalyticsService(repos.Ledger, repos.AnalyticsCache),
	}
}
