package services

import (
	"context"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
)

// AnalyticsSvc exposes read-only views over the catalog.
type AnalyticsSvc interface {
	GetAnalytics(ctx context.Context) (*domain.Analytics, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
	OutOfStock(ctx context.Context) ([]domain.Product, error)
	TopSelling(ctx context.Context, n int) ([]domain.Product, error)
	TopRented(ctx context.Context, n int) ([]domain.Product, error)
	Distribution(ctx context.Context) (map[domain.ProductType]int, error)
}
