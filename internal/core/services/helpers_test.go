package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/core/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
	"github.com/SscSPs/shop_ledger_app/internal/platform/config"
	"github.com/SscSPs/shop_ledger_app/internal/repositories/cache"
	"github.com/SscSPs/shop_ledger_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:          config.StoreDriverMemory,
		IdempotencyTTL:       time.Hour,
		SerialMaxRetries:     3,
		DefaultMinStockLevel: domain.DefaultMinStockLevel,
	}
}

func newMemoryContainer() (*memory.Store, *portssvc.ServiceContainer) {
	store := memory.NewStore()
	repos := portsrepo.RepositoryProvider{
		Ledger:      store,
		Idempotency: cache.NewMemoryIdempotencyStore(),
	}
	return store, services.NewServiceContainer(testConfig(), repos)
}

func seedProduct(ctx context.Context, svc portssvc.CatalogSvcFacade, name string, productType domain.ProductType, rate string, stock int) *domain.Product {
	p, err := svc.CreateProduct(ctx, dto.CreateProductRequest{
		Name:         name,
		Rate:         decimal.RequireFromString(rate),
		ProductType:  productType,
		OpeningStock: stock,
	})
	if err != nil {
		panic(err)
	}
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func int64Ptr(v int64) *int64 {
	return &v
}
