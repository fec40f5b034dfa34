package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
)

const openingStockNote = "opening stock"

type catalogService struct {
	BaseService
	store           portsrepo.LedgerStore
	stock           *stockLedgerService
	defaultMinStock int
}

// CatalogServiceOption configures optional catalog behaviour.
type CatalogServiceOption func(*catalogService)

// WithDefaultMinStockLevel sets the threshold used when a product is created without one.
func WithDefaultMinStockLevel(level int) CatalogServiceOption {
	return func(s *catalogService) {
		if level >= 0 {
			s.defaultMinStock = level
		}
	}
}

func newCatalogService(store portsrepo.LedgerStore, stock *stockLedgerService, opts ...CatalogServiceOption) *catalogService {
	s := &catalogService{
		store:           store,
		stock:           stock,
		defaultMinStock: domain.DefaultMinStockLevel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store portsrepo.LedgerStore, opts ...CatalogServiceOption) portssvc.CatalogSvcFacade {
	return newCatalogService(store, newStockLedgerService(store), opts...)
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.MissingField("name")
	}
	if !req.ProductType.Valid() {
		return nil, apperrors.Invalid("productType must be one of sales, rental")
	}
	if req.Rate.IsNegative() {
		return nil, apperrors.Invalid("rate cannot be negative")
	}
	if req.OpeningStock < 0 || req.OpeningStock > domain.MaxQuantity {
		return nil, apperrors.Invalid("openingStock must be between 0 and %d", domain.MaxQuantity)
	}
	minStock := s.defaultMinStock
	if req.MinStockLevel != nil {
		if *req.MinStockLevel < 0 || *req.MinStockLevel > domain.MaxQuantity {
			return nil, apperrors.Invalid("minStockLevel must be between 0 and %d", domain.MaxQuantity)
		}
		minStock = *req.MinStockLevel
	}

	product := &domain.Product{
		Name:          name,
		Rate:          req.Rate.Round(2),
		Category:      req.Category,
		ProductType:   req.ProductType,
		MinStockLevel: minStock,
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := tx.InsertProduct(ctx, product); err != nil {
			return err
		}
		if req.OpeningStock == 0 {
			return nil
		}
		note := openingStockNote
		m, err := s.stock.mutate(ctx, tx, product, req.OpeningStock, domain.ChangeInventory, &note)
		if err != nil {
			return err
		}
		*product = m.Product
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "Failed to create product", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Product created",
		slog.Int64("product_id", product.ProductID),
		slog.String("name", product.Name),
		slog.Int("opening_stock", product.StockQuantity))
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	product, err := s.store.FindProductByID(ctx, productID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to get product", slog.Int64("product_id", productID))
		return nil, err
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, params dto.ListProductsParams) ([]domain.Product, error) {
	filter := portsrepo.ProductFilter{Category: params.Category}
	if params.ProductType != nil {
		pt := domain.ProductType(*params.ProductType)
		if !pt.Valid() {
			return nil, apperrors.Invalid("productType must be one of sales, rental")
		}
		filter.ProductType = &pt
	}
	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list products")
		return nil, err
	}
	return products, nil
}

// UpdateProduct edits catalog fields. Stock only moves through the stock ledger.
func (s *catalogService) UpdateProduct(ctx context.Context, productID int64, req dto.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.store.FindProductByID(ctx, productID)
	if err != nil {
		s.LogFailure(ctx, err, "Failed to load product for update", slog.Int64("product_id", productID))
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.MissingField("name")
		}
		product.Name = name
	}
	if req.Rate != nil {
		if req.Rate.IsNegative() {
			return nil, apperrors.Invalid("rate cannot be negative")
		}
		product.Rate = req.Rate.Round(2)
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.MinStockLevel != nil {
		if *req.MinStockLevel < 0 || *req.MinStockLevel > domain.MaxQuantity {
			return nil, apperrors.Invalid("minStockLevel must be between 0 and %d", domain.MaxQuantity)
		}
		product.MinStockLevel = *req.MinStockLevel
	}

	if err := s.store.UpdateProductDetails(ctx, *product); err != nil {
		s.LogFailure(ctx, err, "Failed to update product", slog.Int64("product_id", productID))
		return nil, err
	}
	return s.store.FindProductByID(ctx, productID)
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID int64) error {
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		s.LogFailure(ctx, err, "Failed to delete product", slog.Int64("product_id", productID))
		return err
	}
	s.LogInfo(ctx, "Product deleted", slog.Int64("product_id", productID))
	return nil
}
