package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"golang.org/x/sync/singleflight"
)

const (
	dashboardTopN   = 5
	snapshotFlight  = "analytics"
	maxRankingLimit = 100
)

type analyticsService struct {
	BaseService
	products portsrepo.ProductReader
	cache    portsrepo.AnalyticsCache
	group    singleflight.Group
	now      func() time.Time
}

// NewAnalyticsService creates a new AnalyticsSvc. cache may be nil.
func NewAnalyticsService(products portsrepo.ProductReader, cache portsrepo.AnalyticsCache) portssvc.AnalyticsSvc {
	return &analyticsService{
		products: products,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.AnalyticsSvc = (*analyticsService)(nil)

// buildAnalytics derives the dashboard snapshot from a full product listing.
func buildAnalytics(products []domain.Product, now time.Time) domain.Analytics {
	a := domain.Analytics{
		TotalProducts: len(products),
		Distribution: map[domain.ProductType]int{
			domain.ProductTypeSales:  0,
			domain.ProductTypeRental: 0,
		},
		TopSelling:  rankBy(products, func(p domain.Product) int { return p.TotalSales }, dashboardTopN),
		TopRented:   rankBy(products, func(p domain.Product) int { return p.TotalRentals }, dashboardTopN),
		GeneratedAt: now,
	}
	for _, p := range products {
		if p.IsLowStock() {
			a.LowStockCount++
		}
		if p.IsOutOfStock() {
			a.OutOfStockCount++
		}
		a.InventoryValue = a.InventoryValue.Add(p.StockValue())
		a.Distribution[p.ProductType]++
	}
	a.InventoryValue = a.InventoryValue.Round(2)
	return a
}

// rankBy returns at most n products with a positive counter, highest first, ties broken by name.
func rankBy(products []domain.Product, counter func(domain.Product) int, n int) []domain.Product {
	ranked := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if counter(p) > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := counter(ranked[i]), counter(ranked[j])
		if ci != cj {
			return ci > cj
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func (s *analyticsService) listAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListProducts(ctx, portsrepo.ProductFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list products for analytics")
		return nil, err
	}
	return products, nil
}

// GetAnalytics serves the cached snapshot when one exists. Concurrent misses share one rebuild.
func (s *analyticsService) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	if s.cache != nil {
		cached, err := s.cache.GetAnalytics(ctx)
		if err != nil {
			s.LogError(ctx, err, "Analytics cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	v, err, shared := s.group.Do(snapshotFlight, func() (any, error) {
		// other callers wait on this rebuild; one of them going away must not fail the rest
		buildCtx := context.WithoutCancel(ctx)
		products, err := s.listAll(buildCtx)
		if err != nil {
			return nil, err
		}
		snapshot := buildAnalytics(products, s.now())
		if s.cache != nil {
			if err := s.cache.SetAnalytics(buildCtx, snapshot); err != nil {
				s.LogError(buildCtx, err, "Analytics cache write failed")
			}
		}
		return &snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Analytics snapshot built", slog.Bool("shared", shared))
	snapshot := *v.(*domain.Analytics)
	return &snapshot, nil
}

func (s *analyticsService) LowStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]domain.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		if low[i].StockQuantity != low[j].StockQuantity {
			return low[i].StockQuantity < low[j].StockQuantity
		}
		return low[i].Name < low[j].Name
	})
	return low, nil
}

func (s *analyticsService) OutOfStock(ctx context.Context) ([]domain.Product, error) {
	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range products {
		if p.IsOutOfStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func checkRankingSize(n int) error {
	if n < 1 || n > maxRankingLimit {
		return apperrors.Invalid("n must be between 1 and %d", maxRankingLimit)
	}
	return nil
}

func (s *analyticsService) TopSelling(ctx context.Context, n int) ([]domain.Product, error) {
	if err := checkRankingSize(n); err != nil {
		return nil, err
	}
	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	return rankBy(products, func(p domain.Product) int { return p.TotalSales }, n), nil
}

func (s *analyticsService) TopRented(ctx context.Context, n int) ([]domain.Product, error) {
	if err := checkRankingSize(n); err != nil {
		return nil, err
	}
	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	return rankBy(products, func(p domain.Product) int { return p.TotalRentals }, n), nil
}

func (s *analyticsService) Distribution(ctx context.Context) (map[domain.ProductType]int, error) {
	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildAnalytics(products, s.now()).Distribution, nil
}
