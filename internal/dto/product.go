package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to add a catalog entry.
type CreateProductRequest struct {
	Name          string             `json:"name" binding:"required"`
	Rate          decimal.Decimal    `json:"rate"`
	Category      *string            `json:"category"`
	ProductType   domain.ProductType `json:"productType" binding:"required,oneof=sales rental"`
	MinStockLevel *int               `json:"minStockLevel" binding:"omitempty,min=0"`
	OpeningStock  int                `json:"openingStock" binding:"min=0"`
}

// UpdateProductRequest defines the catalog fields that may be edited.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Rate          *decimal.Decimal `json:"rate"`
	Category      *string          `json:"category"`
	MinStockLevel *int             `json:"minStockLevel" binding:"omitempty,min=0"`
}

// ListProductsParams defines the query filters for listing products.
type ListProductsParams struct {
	ProductType *string `form:"productType" binding:"omitempty,oneof=sales rental"`
	Category    *string `form:"category"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     int64              `json:"productID"`
	Name          string             `json:"name"`
	Rate          decimal.Decimal    `json:"rate"`
	Category      *string            `json:"category,omitempty"`
	ProductType   domain.ProductType `json:"productType"`
	StockQuantity int                `json:"stockQuantity"`
	MinStockLevel int                `json:"minStockLevel"`
	LowStock      bool               `json:"lowStock"`
	TotalSales    int                `json:"totalSales"`
	TotalRentals  int                `json:"totalRentals"`
	LastRestocked *time.Time         `json:"lastRestocked,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Rate:          p.Rate,
		Category:      p.Category,
		ProductType:   p.ProductType,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		LowStock:      p.IsLowStock(),
		TotalSales:    p.TotalSales,
		TotalRentals:  p.TotalRentals,
		LastRestocked: p.LastRestocked,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToProductResponses converts a slice of domain.Product to []ProductResponse.
func ToProductResponses(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
