package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TopProductsParams defines the size of a ranking.
type TopProductsParams struct {
	N int `form:"n" binding:"omitempty,min=1,max=100"`
}

// AnalyticsResponse defines the dashboard metrics payload.
type AnalyticsResponse struct {
	TotalProducts   int                        `json:"totalProducts"`
	LowStockCount   int                        `json:"lowStockCount"`
	OutOfStockCount int                        `json:"outOfStockCount"`
	InventoryValue  decimal.Decimal            `json:"inventoryValue"`
	Distribution    map[domain.ProductType]int `json:"distribution"`
	TopSelling      []ProductResponse          `json:"topSelling"`
	TopRented       []ProductResponse          `json:"topRented"`
	GeneratedAt     time.Time                  `json:"generatedAt"`
}

// ToAnalyticsResponse converts a domain.Analytics snapshot to its DTO.
func ToAnalyticsResponse(a *domain.Analytics) AnalyticsResponse {
	return AnalyticsResponse{
		TotalProducts:   a.TotalProducts,
		LowStockCount:   a.LowStockCount,
		OutOfStockCount: a.OutOfStockCount,
		InventoryValue:  a.InventoryValue,
		Distribution:    a.Distribution,
		TopSelling:      ToProductResponses(a.TopSelling),
		TopRented:       ToProductResponses(a.TopRented),
		GeneratedAt:     a.GeneratedAt,
	}
}
